package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"catalog/pkg/client"
)

var (
	apiURL    string
	apiToken  string
	email     string
	password  string
	tokenFile string
)

var importCmd = &cobra.Command{
	Use:   "import [products|posts] FILE",
	Short: "Send a CSV/XLSX file to a running server",
	Long: `Send a CSV/XLSX file to the import endpoint of a running server.

Examples:
  catalog import products ./products.xlsx --email admin@gmail.com --password 12345678
  catalog import posts ./posts.csv --token <token>`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"products", "posts"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, path := args[0], args[1]
		if kind != "products" && kind != "posts" {
			return fmt.Errorf("unknown import target %q (want products or posts)", kind)
		}

		var store client.TokenStore = client.NewMemoryTokenStore()
		if tokenFile != "" {
			store = client.NewFileTokenStore(tokenFile)
		}
		if apiToken != "" {
			if err := store.SetToken(apiToken); err != nil {
				return err
			}
		}

		g := client.New(apiURL, client.WithTokenStore(store))
		unsubscribe := g.Subscribe(func(n client.Notification) {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", n.Kind, n.Message)
		})
		defer unsubscribe()

		ctx := cmd.Context()
		if email != "" {
			if _, err := g.Auth.Login(ctx, email, password); err != nil {
				return err
			}
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		file := client.File{Name: filepath.Base(path), Reader: f}
		var n int
		if kind == "products" {
			n, err = g.Products.Import(ctx, file)
		} else {
			n, err = g.Posts.Import(ctx, file)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s\n", n, kind)
		return nil
	},
}

func init() {
	defaultTokenFile := ""
	if dir, err := os.UserConfigDir(); err == nil {
		defaultTokenFile = filepath.Join(dir, "catalog", "token.json")
	}
	importCmd.Flags().StringVar(&apiURL, "url", client.DefaultBaseURL, "API base URL")
	importCmd.Flags().StringVar(&apiToken, "token", "", "Bearer token")
	importCmd.Flags().StringVar(&email, "email", "", "Login email (token is stored in --token-file)")
	importCmd.Flags().StringVar(&password, "password", "", "Login password")
	importCmd.Flags().StringVar(&tokenFile, "token-file", defaultTokenFile, "Where the token is kept between runs")
}
