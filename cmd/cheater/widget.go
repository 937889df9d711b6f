package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var widgetCmd = &cobra.Command{
	Use:   "widget [shell]",
	Short: "Output shell widget script for integration",
	Long: `Outputs a shell script that can be sourced for shell integration.

Usage:
  eval "$(cheater widget bash)"

Then press Ctrl+G to trigger the cheater selector. The current
command line is used as the initial search query.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish"},
	RunE:      runWidget,
}

func runWidget(cmd *cobra.Command, args []string) error {
	script, err := widgetScript(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), script)
	return nil
}

func widgetScript(shell string) (string, error) {
	switch shell {
	case "bash":
		return bashWidget, nil
	case "zsh":
		return zshWidget, nil
	case "fish":
		return fishWidget, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (supported: bash, zsh, fish)", shell)
	}
}

const bashWidget = `#!/usr/bin/env bash

_cheater_widget() {
   local -r input="${READLINE_LINE}"

   local output
   output="$(cheater --print --auto --query "$input")"

   if [ -n "$output" ]; then
      READLINE_LINE="$output"
      READLINE_POINT=${#READLINE_LINE}
   fi
}

if [ ${BASH_VERSION:0:1} -lt 4 ]; then
   echo "cheater widget requires bash 4+" >&2
else
   bind -x '"\C-g": _cheater_widget'
fi
`

const zshWidget = `#!/usr/bin/env zsh

_cheater_widget() {
   local input="$BUFFER"

   local output
   output="$(cheater --print --auto --query "$input")"

   if [ -n "$output" ]; then
      BUFFER="$output"
      CURSOR=${#BUFFER}
   fi

   zle reset-prompt
}

zle -N _cheater_widget
bindkey '^g' _cheater_widget
`

const fishWidget = `function _cheater_widget
   set -l input (commandline)
   set -l output (cheater --print --auto --query "$input")

   if test -n "$output"
      commandline -r "$output"
      commandline -f end-of-line
   end

   commandline -f repaint
end

bind \cg _cheater_widget
`
