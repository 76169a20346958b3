package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/namitjain73/IPEC-Hackethon/pkg/tlsutil"
)

func newCertsCmd(a *app) *cobra.Command {
	var (
		hosts []string
		out   string
	)

	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Generate a development CA and server certificate for vegmld",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := tlsutil.GenerateSelfSignedCert(hosts, out); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Wrote ca.pem, server.pem and server-key.pem to %s\n", out)
			fmt.Fprintf(a.out, "Serve with TLS_CERT_FILE=%s/server.pem TLS_KEY_FILE=%s/server-key.pem\n", out, out)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&hosts, "hosts", []string{"localhost", "127.0.0.1"}, "DNS names and IPs for the server certificate")
	cmd.Flags().StringVar(&out, "out", "certs", "output directory")
	return cmd
}
