package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/gubarz/cheater/internal/config"
	"github.com/gubarz/cheater/internal/store"
)

// storeFs is swapped for an in-memory filesystem in tests
var storeFs = afero.NewOsFs()

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Manage saved variables",
	Long: `Lists and edits the variable store. Saved variables are the
first default offered for a matching <argument>.`,
}

var varsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved variables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		for _, k := range s.Keys() {
			v, _ := s.Get(k)
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
		}
		return nil
	},
}

var varsGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a saved variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		v, ok := s.Get(args[0])
		if !ok {
			return fmt.Errorf("variable %q is not set", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	},
}

var varsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Save a variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateStore(args[0], args[1])
	},
}

var varsUnsetCmd = &cobra.Command{
	Use:   "unset <name>",
	Short: "Remove a saved variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateStore(args[0], "")
	},
}

func init() {
	varsCmd.AddCommand(varsListCmd, varsGetCmd, varsSetCmd, varsUnsetCmd)
}

func openStore() (*store.Store, error) {
	s, err := store.Open(storeFs, config.GetVarsFile())
	if err != nil {
		return nil, fmt.Errorf("open variable store: %w", err)
	}
	return s, nil
}

// updateStore sets name to value; an empty value removes it
func updateStore(name, value string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	s.Set(name, value)
	if err := s.Save(); err != nil {
		return fmt.Errorf("save variable store: %w", err)
	}
	return nil
}
