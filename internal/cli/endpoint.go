package cli

import (
	"fmt"
	"io"

	"github.com/opencode-ai/photobooth/internal/registry"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(endpointCmd)
	rootCmd.AddCommand(pathsCmd)
}

var endpointCmd = &cobra.Command{
	Use:   "endpoint [name]",
	Short: "Print endpoint URLs",
	Long: `Print one endpoint URL by name, or every endpoint when no name is given.

Besides the configured URLs, "client_id" is the id sent to the image server
and "socket" is the websocket URL with that id attached.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNamedValues(cmd.OutOrStdout(), args, endpointNames, endpointValue)
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths [name]",
	Short: "Print resolved filesystem paths",
	Long:  "Print one absolute path by name, or every path when no name is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNamedValues(cmd.OutOrStdout(), args, (*registry.Registry).PathNames, (*registry.Registry).Path)
	},
}

const (
	clientIDName = "client_id"
	socketName   = "socket"
)

func endpointNames(reg *registry.Registry) []string {
	return append(reg.EndpointNames(), clientIDName, socketName)
}

func endpointValue(reg *registry.Registry, name string) (string, error) {
	switch name {
	case clientIDName:
		return reg.ClientID(), nil
	case socketName:
		return reg.SocketURL()
	default:
		return reg.Endpoint(name)
	}
}

type namedValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func runNamedValues(
	out io.Writer,
	args []string,
	names func(*registry.Registry) []string,
	lookup func(*registry.Registry, string) (string, error),
) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		value, err := lookup(reg, args[0])
		if err != nil {
			return err
		}
		if IsJSONOutput() {
			return WriteOutput(out, namedValue{Name: args[0], Value: value})
		}
		_, err = fmt.Fprintln(out, value)
		return err
	}

	values := make([]namedValue, 0)
	for _, name := range names(reg) {
		value, err := lookup(reg, name)
		if err != nil {
			return err
		}
		values = append(values, namedValue{Name: name, Value: value})
	}

	if IsJSONOutput() {
		return WriteOutput(out, values)
	}
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{v.Name, v.Value})
	}
	return writeTable(out, []string{"NAME", "VALUE"}, rows)
}
