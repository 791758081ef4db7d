package cli

import (
	"github.com/spf13/cobra"
)

// NewOperationsCmd создаёт команду operations: журнал операций.
func NewOperationsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List recent control-plane operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			ops, err := client.ListOperations(limit)
			if err != nil {
				return err
			}

			headers := []string{"ID", "TYPE", "INSTANCE", "STATUS", "ERROR", "CREATED"}
			rows := make([][]string, len(ops))
			for i, op := range ops {
				rows[i] = []string{op.ID, op.Type, op.InstanceName, op.Status, op.Error, op.CreatedAt}
			}

			out.Print(headers, rows, ops)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}
