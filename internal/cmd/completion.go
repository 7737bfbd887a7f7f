package cmd

import (
	"fmt"
	"io"
	"strings"
)

type CompletionCmd struct {
	Bash CompletionBashCmd `cmd:"" help:"Generate bash completions"`
	Zsh  CompletionZshCmd  `cmd:"" help:"Generate zsh completions"`
	Fish CompletionFishCmd `cmd:"" help:"Generate fish completions"`
}

type completionEntry struct {
	name string
	help string
	subs []string
}

var completionTree = []completionEntry{
	{name: "login", help: "Log in to ChainVue"},
	{name: "logout", help: "Log out of ChainVue"},
	{name: "whoami", help: "Show current user and organization"},
	{name: "keys", help: "Manage API keys", subs: []string{"list", "create", "revoke"}},
	{name: "webhooks", help: "Manage webhooks", subs: []string{"list", "create", "delete", "test"}},
	{name: "org", help: "Manage organizations", subs: []string{"list", "switch", "current"}},
	{name: "query", help: "Execute a GraphQL query"},
	{name: "profile", help: "Manage local profiles", subs: []string{"list", "use", "delete"}},
	{name: "config", help: "Manage configuration", subs: []string{"path", "show", "set-endpoint"}},
	{name: "version", help: "Print version"},
	{name: "completion", help: "Generate shell completions", subs: []string{"bash", "zsh", "fish"}},
}

func completionNames() string {
	names := make([]string, 0, len(completionTree))
	for _, e := range completionTree {
		names = append(names, e.name)
	}

	return strings.Join(names, " ")
}

type CompletionBashCmd struct{}

func (c *CompletionBashCmd) Run() error {
	return writeBashCompletion(stdout)
}

func writeBashCompletion(w io.Writer) error {
	var b strings.Builder

	b.WriteString("_chainvue_completions() {\n")
	b.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\"\n\n")
	b.WriteString("    if [ $COMP_CWORD -eq 1 ]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", completionNames())
	b.WriteString("        return\n    fi\n\n")
	b.WriteString("    if [ $COMP_CWORD -eq 2 ]; then\n        case \"${COMP_WORDS[1]}\" in\n")

	for _, e := range completionTree {
		if len(e.subs) == 0 {
			continue
		}

		fmt.Fprintf(&b, "            %s) COMPREPLY=($(compgen -W \"%s\" -- \"$cur\")) ;;\n", e.name, strings.Join(e.subs, " "))
	}

	b.WriteString("        esac\n    fi\n}\n\ncomplete -F _chainvue_completions chainvue\n")

	_, err := io.WriteString(w, b.String())

	return err
}

type CompletionZshCmd struct{}

func (c *CompletionZshCmd) Run() error {
	return writeZshCompletion(stdout)
}

func writeZshCompletion(w io.Writer) error {
	var b strings.Builder

	b.WriteString("#compdef chainvue\n\n_chainvue() {\n    local -a commands\n    commands=(\n")

	for _, e := range completionTree {
		fmt.Fprintf(&b, "        '%s:%s'\n", e.name, e.help)
	}

	b.WriteString("    )\n\n    _arguments \\\n        '1: :->command' \\\n        '2: :->sub' \\\n        '*::arg:->args'\n\n")
	b.WriteString("    case $state in\n        command)\n            _describe 'command' commands\n            ;;\n        sub)\n            case $words[2] in\n")

	for _, e := range completionTree {
		if len(e.subs) == 0 {
			continue
		}

		fmt.Fprintf(&b, "                %s) _values 'subcommand' %s ;;\n", e.name, strings.Join(e.subs, " "))
	}

	b.WriteString("            esac\n            ;;\n    esac\n}\n\ncompdef _chainvue chainvue\n")

	_, err := io.WriteString(w, b.String())

	return err
}

type CompletionFishCmd struct{}

func (c *CompletionFishCmd) Run() error {
	return writeFishCompletion(stdout)
}

func writeFishCompletion(w io.Writer) error {
	var b strings.Builder

	b.WriteString("complete -c chainvue -f\n\n")

	for _, e := range completionTree {
		fmt.Fprintf(&b, "complete -c chainvue -n '__fish_use_subcommand' -a '%s' -d '%s'\n", e.name, e.help)
	}

	for _, e := range completionTree {
		if len(e.subs) == 0 {
			continue
		}

		fmt.Fprintf(&b, "complete -c chainvue -n '__fish_seen_subcommand_from %s' -a '%s'\n", e.name, strings.Join(e.subs, " "))
	}

	_, err := io.WriteString(w, b.String())

	return err
}
