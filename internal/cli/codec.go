package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gofurigana/pkg/fix"
	"github.com/yaklabco/gofurigana/pkg/furigana"
)

// ErrEmptyEncoded is returned when decode is given an empty value.
var ErrEmptyEncoded = errors.New("encoded annotation is empty")

func newEncodeCommand() *cobra.Command {
	var reading, original string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a reading and its base text",
		Long: `Print the encoded form of an annotation: reading|id|original.

Each call generates a fresh identifier, so encoding the same pair twice
yields different values.

Examples:
  furigana encode --text かんじ --original 漢字`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ann := furigana.New(reading, original, furigana.NewRange(0, fix.RuneLen(original)))
			encoded, err := furigana.Encode(ann)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}

	cmd.Flags().StringVar(&reading, "text", "", "reading to display over the base text")
	cmd.Flags().StringVar(&original, "original", "", "base text the reading annotates")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newDecodeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <encoded>",
		Short: "Decode an encoded annotation",
		Long: `Print the reading and original text carried by an encoded annotation.

Examples:
  furigana decode 'かんじ|1b4e28ba-2fa1-11d2-883f-0016d3cca427|漢字'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reading, ok := furigana.DecodeReading(args[0])
			if !ok {
				return ErrEmptyEncoded
			}
			original, _ := furigana.DecodeOriginal(args[0])

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reading:  %s\n", reading)
			fmt.Fprintf(out, "original: %s\n", original)
			return nil
		},
	}

	return cmd
}
