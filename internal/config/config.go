package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Paths        []string            `mapstructure:"paths"`
	Formats      []string            `mapstructure:"formats"`
	ExcludeFiles []string            `mapstructure:"exclude_files"`
	ExcludeDirs  []string            `mapstructure:"exclude_dirs"`
	Wordlists    []string            `mapstructure:"wordlists"`
	VarsFile     string              `mapstructure:"vars_file"`
	LocalVars    bool                `mapstructure:"local_vars"`
	PrefixVar    string              `mapstructure:"prefix_var"`
	GlobalVars   []string            `mapstructure:"global_vars"`
	BuildPolicy  string              `mapstructure:"build_policy"`
	Output       string              `mapstructure:"output"`
	Shell        string              `mapstructure:"shell"`
	Editor       string              `mapstructure:"editor"`
	PreHook      string              `mapstructure:"pre_hook"`
	PostHook     string              `mapstructure:"post_hook"`
	ColorHeader  string              `mapstructure:"color_header"`
	ColorCommand string              `mapstructure:"color_command"`
	ColorDesc    string              `mapstructure:"color_desc"`
	ColorArg     string              `mapstructure:"color_arg"`
	ColumnGap    int                 `mapstructure:"column_gap"`
	ColumnHeader int                 `mapstructure:"column_header"`
	ColumnDesc   int                 `mapstructure:"column_desc"`
	WithTags     bool                `mapstructure:"with_tags"`
	Keys         map[string][]string `mapstructure:"keys"`
	ChoiceLabels map[string][]string `mapstructure:"choice_labels"`
	LogLevel     string              `mapstructure:"log_level"`
	LogFile      string              `mapstructure:"log_file"`
	LaunchDir    string              `mapstructure:"launch_dir"`
}

// C is the global config instance
var C Config

// DefaultKeys maps every bindable action to its default keys
func DefaultKeys() map[string][]string {
	return map[string][]string{
		"commit":       {"enter"},
		"cancel":       {"esc"},
		"quit":         {"ctrl+c"},
		"next":         {"down"},
		"prev":         {"up"},
		"page_down":    {"pgdown"},
		"page_up":      {"pgup"},
		"autocomplete": {"tab"},
		"file_picker":  {"ctrl+f"},
		"choices":      {"ctrl+o"},
		"fuzzy":        {"ctrl+t"},
		"globals":      {"ctrl+g"},
		"open_file":    {"ctrl+o"},
	}
}

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("paths", []string{"~/.cheats"})
	viper.SetDefault("formats", []string{"md", "yml", "yaml"})
	viper.SetDefault("exclude_files", []string{"README.md", "README.rst", "index.rst"})
	viper.SetDefault("exclude_dirs", []string{
		"env", "venv", ".env", ".venv", "site-packages", "__pycache__",
		".git", "node_modules", "dist", "build", ".eggs",
	})
	viper.SetDefault("wordlists", []string{
		"/usr/local/share/wordlists/**/*.txt",
		"/usr/share/wordlists/**/*.txt",
		"~/wordlists/**/*.txt",
	})
	viper.SetDefault("vars_file", "~/.cheater.json")
	viper.SetDefault("local_vars", false)
	viper.SetDefault("prefix_var", "cheater_prefix_cmd")
	viper.SetDefault("global_vars", []string{
		"IP", "Username", "Password", "Domain", "LHOST", "LPORT", "RHOST", "RPORT",
	})
	viper.SetDefault("build_policy", "permissive")
	viper.SetDefault("output", "print")
	viper.SetDefault("shell", getDefaultShell())
	viper.SetDefault("editor", "")
	viper.SetDefault("pre_hook", "")
	viper.SetDefault("post_hook", "")
	viper.SetDefault("color_header", "36")  // Cyan
	viper.SetDefault("color_command", "32") // Green
	viper.SetDefault("color_desc", "90")    // Gray
	viper.SetDefault("color_arg", "33")     // Yellow
	viper.SetDefault("column_gap", 2)
	viper.SetDefault("column_header", 40)
	viper.SetDefault("column_desc", 40)
	viper.SetDefault("with_tags", true)
	viper.SetDefault("choice_labels", map[string][]string{
		"Creds_Options": {
			"Normal Authentication (-p)",
			"Pass-The-Hash (-H)",
			"Kerberos Authentication (-k -p)",
		},
	})
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_file", "")
	viper.SetDefault("launch_dir", "")

	viper.SetConfigName("cheater")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "cheater"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CHEATER")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetPaths returns the cheat paths with tilde expansion
func GetPaths() []string {
	paths := viper.GetStringSlice("paths")
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, ExpandTilde(p))
	}
	return out
}

// ExpandTilde expands ~ to the user's home directory
func ExpandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetFormats returns the accepted cheatsheet extensions
func GetFormats() []string {
	return viper.GetStringSlice("formats")
}

// GetExcludeFiles returns file names never parsed
func GetExcludeFiles() []string {
	return viper.GetStringSlice("exclude_files")
}

// GetExcludeDirs returns directory names never walked
func GetExcludeDirs() []string {
	return viper.GetStringSlice("exclude_dirs")
}

// GetWordlists returns the wordlist glob patterns
func GetWordlists() []string {
	return viper.GetStringSlice("wordlists")
}

// GetVarsFile returns the variable store path
func GetVarsFile() string {
	if viper.GetBool("local_vars") {
		return filepath.Join(GetLaunchDir(), ".cheater.json")
	}
	return ExpandTilde(viper.GetString("vars_file"))
}

// GetPrefixVar returns the store key holding the command prefix
func GetPrefixVar() string {
	return viper.GetString("prefix_var")
}

// GetGlobalVars returns the variables shown in the global options form
func GetGlobalVars() []string {
	return viper.GetStringSlice("global_vars")
}

// GetBuildPolicy returns "permissive" or "strict"
func GetBuildPolicy() string {
	return strings.ToLower(viper.GetString("build_policy"))
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetShell returns the shell
func GetShell() string {
	return viper.GetString("shell")
}

// GetEditor returns the editor used to open cheat files
func GetEditor() string {
	if editor := viper.GetString("editor"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

// GetColorHeader returns ANSI color code for header
func GetColorHeader() string {
	return viper.GetString("color_header")
}

// GetColorCommand returns ANSI color code for command
func GetColorCommand() string {
	return viper.GetString("color_command")
}

// GetColorDesc returns ANSI color code for description
func GetColorDesc() string {
	return viper.GetString("color_desc")
}

// GetColorArg returns ANSI color code for the active argument
func GetColorArg() string {
	return viper.GetString("color_arg")
}

// GetColumnGap returns spacing between columns
func GetColumnGap() int {
	return viper.GetInt("column_gap")
}

// GetColumnHeader returns max header column width
func GetColumnHeader() int {
	return viper.GetInt("column_header")
}

// GetColumnDesc returns max description column width
func GetColumnDesc() int {
	return viper.GetInt("column_desc")
}

// GetWithTags returns whether tags are shown in the list
func GetWithTags() bool {
	return viper.GetBool("with_tags")
}

// GetKeys returns the key bindings, user entries overriding defaults per action
func GetKeys() map[string][]string {
	keys := DefaultKeys()
	for action, bound := range viper.GetStringMapStringSlice("keys") {
		if len(bound) > 0 {
			keys[strings.ToLower(action)] = bound
		}
	}
	return keys
}

// GetChoiceLabels returns choice labels keyed by lower-cased argument name
func GetChoiceLabels() map[string][]string {
	labels := make(map[string][]string)
	for name, l := range viper.GetStringMapStringSlice("choice_labels") {
		labels[strings.ToLower(name)] = l
	}
	return labels
}

// GetLogLevel returns the log level name
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetLogFile returns the log destination, empty for stderr
func GetLogFile() string {
	return ExpandTilde(viper.GetString("log_file"))
}

// GetLaunchDir returns the directory the picker and autocompletion work from
func GetLaunchDir() string {
	if dir := viper.GetString("launch_dir"); dir != "" {
		return ExpandTilde(dir)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// GetPreHook returns the pre-execution hook command
func GetPreHook() string {
	return viper.GetString("pre_hook")
}

// GetPostHook returns the post-execution hook command
func GetPostHook() string {
	return viper.GetString("post_hook")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetPaths sets cheat paths at runtime
func SetPaths(paths []string) {
	viper.Set("paths", paths)
	C.Paths = paths
}

func getDefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}
