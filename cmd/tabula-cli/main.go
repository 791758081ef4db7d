// Tabula CLI — инструмент командной строки для управления
// instances и clusters через HTTP API.
//
// Использование:
//
//	tabula [--api-url URL] [--json] <command> [flags]
//
// Команды:
//
//	run           Создать PRODUCTION instance, если его нет, и показать детали
//	dev-instance  Создать DEVELOPMENT instance
//	del-instance  Удалить instance
//	add-cluster   Добавить кластер в существующий instance
//	del-cluster   Удалить кластер
//	instances     Список instances
//	operations    Журнал операций
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Tabula/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "tabula",
		Short:         "Tabula CLI — wide-column storage instance administration",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRunCmd(clientFn, outputFn),
		cli.NewDevInstanceCmd(clientFn, outputFn),
		cli.NewDelInstanceCmd(clientFn, outputFn),
		cli.NewAddClusterCmd(clientFn, outputFn),
		cli.NewDelClusterCmd(clientFn, outputFn),
		cli.NewInstancesCmd(clientFn, outputFn),
		cli.NewOperationsCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
