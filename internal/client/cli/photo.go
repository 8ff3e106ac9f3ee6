package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/netx"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

const maxPhotoBytes = 10 << 20

// uploadToPresignedURL is a test seam for netx.UploadToPresignedURL.
var uploadToPresignedURL = netx.UploadToPresignedURL

func newPhotoCmd(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "photo <file>",
		Short: "Upload a profile photo",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(cmd *cobra.Command, a *App, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data) > maxPhotoBytes {
				return fmt.Errorf("%s is larger than %d bytes", args[0], maxPhotoBytes)
			}

			mt := mimetype.Detect(data).String()
			if !strings.HasPrefix(mt, "image/") {
				return fmt.Errorf("%s is not an image (%s)", args[0], mt)
			}

			sess, err := a.requireSession(cmd.Context())
			if err != nil {
				return err
			}

			up, err := a.blog.RequestPhotoUpload(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}

			if err := uploadToPresignedURL(cmd.Context(), a.httpClient, up.UploadURL, data, mt); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Photo uploaded: %s\n", up.Photo)
			return nil
		}),
	}
}
