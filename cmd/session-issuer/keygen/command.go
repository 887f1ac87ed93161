package keygen

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gordonnow/session-issuer/internal/token"
)

type options struct {
	bits       int
	outPrivate string
	outPublic  string
}

func Cmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA key pair for token signing",
		Long:  "Generates a PKCS#8 private key and a PKIX public key usable as issuer.privateKey and issuer.publicKey",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.bits, "bits", token.MinRSABits, "RSA modulus size in bits")
	cmd.Flags().StringVar(&opts.outPrivate, "out-private", "", "private key output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.outPublic, "out-public", "", "public key output file (stdout if empty)")

	return cmd
}

func run(stdout io.Writer, opts options) error {
	privPEM, pubPEM, err := token.GenerateRSAKeyPair(opts.bits)
	if err != nil {
		return err
	}

	if err := write(stdout, opts.outPrivate, privPEM, 0o600); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}

	if err := write(stdout, opts.outPublic, pubPEM, 0o644); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}

	return nil
}

func write(stdout io.Writer, path string, data []byte, perm os.FileMode) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, perm)
}
