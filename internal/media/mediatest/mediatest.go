// Package mediatest — минимальные файлы-картинки для тестов загрузки.
// Достаточно сигнатуры формата: тип определяется по первым байтам.
package mediatest

func pad(head string) []byte {
	return append([]byte(head), make([]byte, 32)...)
}

func PNG() []byte  { return pad("\x89PNG\r\n\x1a\n") }
func JPEG() []byte { return pad("\xff\xd8\xff\xe0\x00\x10JFIF\x00") }
func GIF() []byte  { return pad("GIF89a") }
func WebP() []byte { return pad("RIFF\x24\x00\x00\x00WEBPVP8 ") }
