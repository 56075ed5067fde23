package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/qr"
)

var (
	linkProperty string
	linkPicks    []string
	linkQR       string
	linkQRSize   int
)

var linkCmd = &cobra.Command{
	Use:   "link <zip>",
	Short: "Print a guest share link, optionally writing a QR code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		zip := strings.TrimSpace(args[0])
		if !guide.ValidZip(zip) {
			return eris.Errorf("invalid zip %q", zip)
		}

		link := guide.ShareLink(cfg.Server.Origin, zip, linkProperty, parsePicks(linkPicks))
		fmt.Fprintln(cmd.OutOrStdout(), link)

		if linkQR == "" {
			return nil
		}
		png, err := qr.PNG(link, linkQRSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(linkQR, png, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", linkQR)
		}
		return nil
	},
}

func init() {
	linkCmd.Flags().StringVar(&linkProperty, "property", "", "property name")
	linkCmd.Flags().StringArrayVar(&linkPicks, "pick", nil, `host pick as "Name|Note" (repeatable, max 2)`)
	linkCmd.Flags().StringVar(&linkQR, "qr", "", "write a QR code PNG to this path")
	linkCmd.Flags().IntVar(&linkQRSize, "qr-size", qr.DefaultSize, "QR code size in pixels")
	rootCmd.AddCommand(linkCmd)
}
