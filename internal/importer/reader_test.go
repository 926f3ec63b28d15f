package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	data := "\ufeffName, Description ,Price,Stock\n" +
		"Widget,Small,9.99,5\n" +
		",,,\n" +
		"Gadget,Big,10\n"

	rows, err := Read("products.csv", strings.NewReader(data))
	require.NoError(t, err)

	want := []Row{
		{Line: 2, Values: map[string]string{"name": "Widget", "description": "Small", "price": "9.99", "stock": "5"}},
		{Line: 4, Values: map[string]string{"name": "Gadget", "description": "Big", "price": "10", "stock": ""}},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("diff: -want, +got:\n%s", diff)
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Title", "Content", "Author", "Published At"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Hello", "Body", "Me", "2024-01-01"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rows, err := Read("posts.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, "Hello", rows[0].Get("title"))
	require.Equal(t, "2024-01-01", rows[0].Get("published_at"))
}

func TestReadRejects(t *testing.T) {
	_, err := Read("products.pdf", strings.NewReader("x"))
	require.ErrorIs(t, err, ErrUnsupportedFile)

	_, err = Read("products.csv", strings.NewReader(""))
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestHeadingKey(t *testing.T) {
	require.Equal(t, "published_at", HeadingKey("  Published   At "))
	require.Equal(t, "price", HeadingKey("PRICE"))
}
