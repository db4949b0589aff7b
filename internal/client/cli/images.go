package cli

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/iudanet/fishlog/internal/client/api"
)

func (c *Cli) imagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Manage photos attached to captures",
	}
	cmd.AddCommand(
		c.imagesListCommand(),
		c.imagesUploadCommand(),
		c.imagesDeleteCommand(),
	)
	return cmd
}

func (c *Cli) imagesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list CAPTURE_ID",
		Short: "List photos of a capture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			captureID, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			images, err := a.Client.ListImages(cmd.Context(), captureID)
			if err != nil {
				return err
			}
			if len(images) == 0 {
				c.io.Printf("Capture %d has no images.\n", captureID)
				return nil
			}

			w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tFILE\tTYPE\tSIZE\tUPLOADED")
			for _, img := range images {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					img.ID, img.FileName, img.MimeType, humanize.IBytes(uint64(max(img.FileSize, 0))), img.UploadedAt)
			}
			return w.Flush()
		},
	}
}

func (c *Cli) imagesUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload CAPTURE_ID FILE...",
		Short: "Attach photos to a capture",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			captureID, err := parseID(args[0])
			if err != nil {
				return err
			}

			files := make([]api.ImageFile, 0, len(args)-1)
			defer func() {
				for _, f := range files {
					if closer, ok := f.Content.(io.Closer); ok {
						err = errors.Join(err, closer.Close())
					}
				}
			}()
			for _, path := range args[1:] {
				file, err := openImage(path)
				if err != nil {
					return err
				}
				files = append(files, file)
			}

			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			if len(files) == 1 {
				image, err := a.Client.UploadImage(cmd.Context(), captureID, files[0])
				if err != nil {
					return err
				}
				c.io.Printf("✓ Uploaded %s (image %d)\n", image.FileName, image.ID)
				return nil
			}

			resp, err := a.Client.UploadImages(cmd.Context(), captureID, files)
			if err != nil {
				return err
			}
			c.io.Printf("✓ Uploaded %d images, capture %d now has %d\n",
				len(resp.UploadedImages), resp.CaptureID, resp.TotalImages)
			return nil
		},
	}
}

func (c *Cli) imagesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete IMAGE_ID",
		Short: "Delete a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imageID, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd)
			if err != nil {
				return err
			}

			if _, err := a.Client.DeleteImage(cmd.Context(), imageID); err != nil {
				return err
			}
			c.io.Printf("✓ Image %d deleted\n", imageID)
			return nil
		},
	}
}

// openImage открывает файл и определяет его MIME тип.
// Тип берется по расширению, иначе по первым 512 байтам.
func openImage(path string) (api.ImageFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return api.ImageFile{}, fmt.Errorf("failed to open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return api.ImageFile{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		head := make([]byte, 512)
		n, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			_ = f.Close()
			return api.ImageFile{}, fmt.Errorf("failed to read %s: %w", path, err)
		}
		contentType = http.DetectContentType(head[:n])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			_ = f.Close()
			return api.ImageFile{}, fmt.Errorf("failed to rewind %s: %w", path, err)
		}
	}

	return api.ImageFile{
		Content:     f,
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
	}, nil
}
