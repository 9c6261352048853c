package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/digest"
)

// NewDigestCommand creates the "digest" command, which base64-decodes a
// blob and prints it both as a byte-string literal and as lossy UTF-8.
func NewDigestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "digest [BASE64]",
		Short: "Decode a base64 digest blob",
		Long: `Decode a base64 blob and print the raw bytes and their UTF-8 reading.

Without an argument the digest recovered from the game's save data is
decoded. Whitespace inside the argument is ignored. A malformed blob prints
"Failed to decode: <reason>" and still exits 0.

Examples:
  assetpeek digest
  assetpeek digest "aGVsbG8="`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded := digest.DefaultDigest
			if len(args) == 1 {
				encoded = args[0]
			}
			return digest.Print(cmd.OutOrStdout(), encoded)
		},
	}
}
