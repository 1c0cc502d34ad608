package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"caseflow/browser"
	"caseflow/doctree"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Browse and maintain a case's documents",
}

var docsTreeCmd = &cobra.Command{
	Use:   "tree <case-id>",
	Short: "Print the document tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		root, err := api.DocumentTree(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("could not load documents: %w", err)
		}
		if root.LeafCount() == 0 {
			fmt.Println("No documents for this case yet.")
			return nil
		}

		exp := doctree.NewExpansion()
		if all, _ := cmd.Flags().GetBool("all"); all {
			doctree.ExpandAll(root, exp)
		}
		paths, _ := cmd.Flags().GetStringSlice("expand")
		for _, p := range paths {
			exp.Expand(p)
		}

		for _, row := range doctree.Flatten(root, exp) {
			fmt.Println(renderRow(row))
		}
		return nil
	},
}

var docsDownloadCmd = &cobra.Command{
	Use:   "download <file-key>",
	Short: "Download a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		body, err := api.DownloadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer body.Close()

		outDir, _ := cmd.Flags().GetString("out")
		dest := filepath.Join(outDir, filepath.Base(args[0]))
		out, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dest, err)
		}
		defer out.Close()

		n, err := io.Copy(out, body)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		fmt.Printf("Saved %s (%s)\n", dest, humanize.Bytes(uint64(n)))
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <file-key>",
	Short: "Delete a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !confirm(fmt.Sprintf("Delete %s? This cannot be undone", args[0])) {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := api.DeleteFile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var docsUploadCmd = &cobra.Command{
	Use:   "upload <case-id> <path>",
	Short: "Upload a document into a case",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPI()
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		rec, err := api.UploadDocument(cmd.Context(), args[0], filepath.Base(args[1]), f)
		if err != nil {
			return err
		}
		fmt.Printf("Uploaded %s (key %s)\n", rec.Name, rec.Key)
		return nil
	},
}

var docsBrowseCmd = &cobra.Command{
	Use:   "browse <case-id>",
	Short: "Browse a case's documents interactively",
	Long: `Browse opens an interactive view of the case's document tree.

Commands:
  o <n>    toggle directory n open/closed
  d <n>    download file n
  rm <n>   delete file n (asks for confirmation)
  r        refresh the tree from the server
  q        quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, log, err := newAPI()
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		b := browser.New(api, args[0], log)
		b.Refresh(cmd.Context())

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			rows := printBrowser(b)

			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			fields := strings.Fields(scanner.Text())
			if len(fields) == 0 {
				continue
			}

			switch fields[0] {
			case "q", "quit":
				return nil
			case "r":
				b.Refresh(cmd.Context())
			case "o":
				row, err := pickRow(rows, fields)
				if err != nil {
					fmt.Println(err)
					continue
				}
				if !row.Dir {
					fmt.Println("Not a directory; use d or rm on files.")
					continue
				}
				b.Toggle(row.Path)
			case "d":
				row, err := pickRow(rows, fields)
				if err != nil {
					fmt.Println(err)
					continue
				}
				file := row.File()
				if file == nil {
					fmt.Println("Not a file.")
					continue
				}
				if err := b.OpenMenu(file); err != nil {
					fmt.Println(err)
					continue
				}
				dest, err := b.Download(cmd.Context(), outDir)
				if err != nil {
					fmt.Println(b.Notice())
					continue
				}
				fmt.Printf("Saved %s\n", dest)
			case "rm":
				row, err := pickRow(rows, fields)
				if err != nil {
					fmt.Println(err)
					continue
				}
				file := row.File()
				if file == nil {
					fmt.Println("Not a file.")
					continue
				}
				if err := b.OpenMenu(file); err != nil {
					fmt.Println(err)
					continue
				}
				if err := b.RequestDelete(); err != nil {
					fmt.Println(err)
					continue
				}
				fmt.Printf("Delete %s? This cannot be undone [y/N]: ", file.Name)
				if !scanner.Scan() {
					b.CancelDelete()
					return scanner.Err()
				}
				answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
				if answer != "y" && answer != "yes" {
					b.CancelDelete()
					fmt.Println("Aborted.")
					continue
				}
				if err := b.ConfirmDelete(cmd.Context()); err != nil {
					fmt.Println(b.Notice())
				}
			default:
				fmt.Println("Commands: o <n>, d <n>, rm <n>, r, q")
			}
		}
	},
}

// printBrowser renders the browser's current state and returns the rows that
// were shown, numbered from 1.
func printBrowser(b *browser.Browser) []doctree.Row {
	if err := b.Err(); err != nil {
		fmt.Printf("Could not load documents: %v\nUse r to retry.\n", err)
		return nil
	}
	if b.Empty() {
		fmt.Println("No documents for this case yet.")
		return nil
	}

	rows := b.Rows()
	for i, row := range rows {
		fmt.Printf("%3d  %s\n", i+1, renderRow(row))
	}
	return rows
}

func pickRow(rows []doctree.Row, fields []string) (doctree.Row, error) {
	if len(fields) < 2 {
		return doctree.Row{}, fmt.Errorf("usage: %s <n>", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 || n > len(rows) {
		return doctree.Row{}, fmt.Errorf("no row %q", fields[1])
	}
	return rows[n-1], nil
}

func renderRow(row doctree.Row) string {
	indent := strings.Repeat("  ", row.Depth)
	if row.Dir {
		marker := "▸"
		if row.Expanded {
			marker = "▾"
		}
		name := row.Node.Label()
		if row.Path == doctree.RootPath && name == "" {
			name = "Documents"
		}
		return fmt.Sprintf("%s%s %s (%d)", indent, marker, name, row.Count)
	}

	f := row.File()
	return fmt.Sprintf("%s  %-40s %8s  %s",
		indent, f.Name, humanize.Bytes(uint64(f.Size)), humanize.Time(f.LastModified))
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func init() {
	docsTreeCmd.Flags().Bool("all", false, "expand every directory")
	docsTreeCmd.Flags().StringSlice("expand", nil, "directory paths to expand (e.g. /bank,/bank/statements)")
	docsDownloadCmd.Flags().String("out", ".", "directory to save into")
	docsDeleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	docsBrowseCmd.Flags().String("out", ".", "directory downloads are saved into")

	docsCmd.AddCommand(docsTreeCmd, docsDownloadCmd, docsDeleteCmd, docsUploadCmd, docsBrowseCmd)
	rootCmd.AddCommand(docsCmd)
}
