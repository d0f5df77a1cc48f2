package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"bizdesk/internal/apiclient"

	"github.com/spf13/cobra"
)

func newCaptureCmd(newClient func() *apiclient.Client) *cobra.Command {
	var key string
	cmd := &cobra.Command{
		Use:   "capture <payment-id>",
		Short: "Capture a pending payment",
		Long:  "Capture a pending payment. Re-running with the same --key is safe; a generated key is printed for reuse.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid payment id %q", args[0])
			}
			res, err := newClient().CapturePayment(cmd.Context(), id, key)
			if apiclient.IsNotFound(err) {
				return fmt.Errorf("payment %d not found", id)
			}
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Replayed {
				fmt.Fprintln(out, "already captured")
			}
			fmt.Fprintf(out, "idempotency key: %s\n", res.IdempotencyKey)
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Payment)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "idempotency key (generated when empty)")
	return cmd
}
