package command

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/cheater/internal/parser"
)

func cheat(command string) *parser.Cheat {
	return &parser.Cheat{Command: command}
}

func TestParseSlots(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		template string
		slots    []Slot
	}{
		{
			name:     "plain",
			command:  "nmap -p- <IP>",
			template: "nmap -p- <IP>",
			slots:    []Slot{{Name: "IP"}},
		},
		{
			name:     "duplicates unified",
			command:  "echo <X> <Y> <X>",
			template: "echo <X> <Y> <X>",
			slots:    []Slot{{Name: "X"}, {Name: "Y"}},
		},
		{
			name:     "inline default rewritten",
			command:  "ssh <User|root>@<Host>",
			template: "ssh <User>@<Host>",
			slots:    []Slot{{Name: "User", Value: "root"}, {Name: "Host"}},
		},
		{
			name:     "empty name is literal",
			command:  "cat <|x> <f>",
			template: "cat <|x> <f>",
			slots:    []Slot{{Name: "f"}},
		},
		{
			name:     "nested brackets",
			command:  "a <<b>>",
			template: "a <<b>>",
			slots:    []Slot{{Name: "b"}},
		},
		{
			name:     "no placeholders",
			command:  "id",
			template: "id",
			slots:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Parse(cheat(tt.command), nil, nil)
			assert.Equal(t, tt.template, cmd.Template)
			assert.Equal(t, tt.slots, cmd.Slots)
		})
	}
}

func TestParseChoices(t *testing.T) {
	cmd := Parse(cheat("tool --mode <Mode|A|A|B| |C>"), nil, nil)

	require.Len(t, cmd.Slots, 1)
	assert.Equal(t, "A", cmd.Slots[0].Value)
	choice, ok := cmd.Choice(0)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, choice.Options)
	assert.Nil(t, choice.Labels)

	single := Parse(cheat("x <Port|80>"), nil, nil)
	_, ok = single.Choice(0)
	assert.False(t, ok)
}

func TestParseChoiceLabels(t *testing.T) {
	labels := map[string][]string{
		"creds_options": {"Normal", "Hash", "Kerberos"},
		"two":           {"only one"},
	}
	cmd := Parse(cheat("nxc smb <IP> <Creds_Options|-p|-H|-k -p> <Two|a|b>"), nil, labels)

	creds, ok := cmd.Choice(cmd.Index("Creds_Options"))
	require.True(t, ok)
	assert.Equal(t, []string{"Normal", "Hash", "Kerberos"}, creds.Labels)
	assert.Equal(t, "Hash", creds.Label(1))

	two, ok := cmd.Choice(cmd.Index("Two"))
	require.True(t, ok)
	assert.Nil(t, two.Labels)
	assert.Equal(t, "b", two.Label(1))
}

func TestParseDefaultOrder(t *testing.T) {
	c := &parser.Cheat{
		Command:   "x <IP> <Port> <User|admin> <Path>",
		Variables: map[string]string{"IP": "1.1.1.1", "Port": "8080", "User": "cheat"},
	}
	globals := map[string]string{"IP": "10.0.0.5", "User": "global"}

	cmd := Parse(c, globals, nil)
	assert.Equal(t, []Slot{
		{Name: "IP", Value: "10.0.0.5"},
		{Name: "Port", Value: "8080"},
		{Name: "User", Value: "admin"},
		{Name: "Path", Value: ""},
	}, cmd.Slots)
	assert.Equal(t, "x <IP> <Port> <User|admin> <Path>", c.Command, "cheat must not change")
}

func TestParseDescription(t *testing.T) {
	c := &parser.Cheat{
		Command:     "a\nb",
		Description: "line one\nline two",
		CommandTags: map[string]string{"target": "remote", "plateform": "linux"},
	}
	cmd := Parse(c, nil, nil)

	assert.Equal(t, "[linux] [remote] \n-----\nline one\nline two", cmd.Description)
	assert.Equal(t, 2, cmd.LineCountCmd)
	assert.Equal(t, 2, cmd.LineCountDesc, "tag labels are not counted")

	bare := Parse(cheat("id"), nil, nil)
	assert.Empty(t, bare.Description)
	assert.Equal(t, 0, bare.LineCountDesc)
}

func TestPartsCount(t *testing.T) {
	commands := []string{
		"id",
		"<A>",
		"<A><A><A>",
		"x <A> y <B|1|2> z <A>",
		"a <|x> <b>\n<c> end",
	}
	for _, c := range commands {
		cmd := Parse(cheat(c), nil, nil)
		parts, occurrences := cmd.Parts()
		assert.Len(t, parts, len(occurrences)+1, c)
	}
}

func TestBuild(t *testing.T) {
	t.Run("inline default and global", func(t *testing.T) {
		cmd := Parse(cheat("ssh <User|root>@<Host>"), map[string]string{"Host": "10.0.0.5"}, nil)
		out, ok := cmd.Build(Permissive)
		require.True(t, ok)
		assert.Equal(t, "ssh root@10.0.0.5", out)
	})

	t.Run("edit renders every occurrence", func(t *testing.T) {
		cmd := Parse(cheat("echo <X> <Y> <X>"), nil, nil)
		cmd.SetValue(cmd.Index("X"), "a")
		cmd.SetValue(cmd.Index("Y"), "b")
		out, ok := cmd.Build(Strict)
		require.True(t, ok)
		assert.Equal(t, "echo a b a", out)
	})

	t.Run("empty value", func(t *testing.T) {
		cmd := Parse(cheat("curl <URL>"), nil, nil)

		_, ok := cmd.Build(Strict)
		assert.False(t, ok)

		out, ok := cmd.Build(Permissive)
		require.True(t, ok)
		assert.Equal(t, "curl ", out)
		assert.Equal(t, []string{"URL"}, cmd.Missing())
	})

	t.Run("idempotent", func(t *testing.T) {
		cmd := Parse(cheat("a <X> b <Y> <X>"), nil, nil)
		cmd.SetValue(0, "1")
		for _, policy := range []BuildPolicy{Permissive, Strict} {
			first, ok1 := cmd.Build(policy)
			second, ok2 := cmd.Build(policy)
			assert.Equal(t, first, second)
			assert.Equal(t, ok1, ok2)
		}
		assert.Equal(t, "a <X> b <Y> <X>", cmd.Template)
	})
}

func TestParseBuildPolicy(t *testing.T) {
	p, err := ParseBuildPolicy("Strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	p, err = ParseBuildPolicy("")
	require.NoError(t, err)
	assert.Equal(t, Permissive, p)

	_, err = ParseBuildPolicy("lenient")
	assert.Error(t, err)
}

func TestWrapDescription(t *testing.T) {
	cmd := &Command{Description: "hello world foo\n\nabcdefghijklmnop"}
	assert.Equal(t, []string{"hello", "world foo", "abcdefghij", "klmnop"}, cmd.WrapDescription(10))
}

func TestPreviewRows(t *testing.T) {
	cmd := Parse(cheat("ssh <User>@<Host>"), nil, nil)
	cmd.SetValue(0, "root")

	rows := cmd.PreviewRows(10)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{
		{Text: "ssh ", Slot: -1},
		{Text: "root", Slot: 0},
		{Text: "@", Slot: -1},
		{Text: "<", Slot: 1},
	}, rows[0])
	assert.Equal(t, "Host>", rows[1].String())
}

func TestPreviewMultiline(t *testing.T) {
	cmd := Parse(cheat("for h in <Hosts>; do\nping -c1 $h\ndone"), nil, nil)

	rows := cmd.PreviewRows(80)
	require.Len(t, rows, 3)
	assert.Equal(t, "for h in <Hosts>; do", rows[0].String())
	assert.Equal(t, "> ping -c1 $h", rows[1].String())
	assert.Equal(t, "> done", rows[2].String())
}

func TestPreviewLineCountMatchesRows(t *testing.T) {
	commands := []string{
		"id",
		"",
		"ssh <User|root>@<Host>",
		"a\n\nb <X>",
		"curl -H 'Authorization: Bearer <Token>' https://<Host>/api/v1/<Endpoint>?q=<Query>",
		"x <A>\n<A> <B|long default value here|other>",
	}
	for _, c := range commands {
		cmd := Parse(cheat(c), nil, nil)
		for width := 0; width <= 40; width++ {
			assert.Equal(t, cmd.PreviewLineCount(width), len(cmd.PreviewRows(width)), "%q at width %d", c, width)
		}
	}
}

func TestPreviewRowsWideValue(t *testing.T) {
	cmd := Parse(cheat("echo <Msg>"), nil, nil)
	cmd.SetValue(0, strings.Repeat("日本", 15))

	rows := cmd.PreviewRows(20)
	require.Len(t, rows, 4)
	assert.Equal(t, len(rows), cmd.PreviewLineCount(20))
	assert.Equal(t, "echo 日本日本日本日", rows[0].String())
	for i, row := range rows {
		assert.LessOrEqual(t, lipgloss.Width(row.String()), 20, "row %d", i)
	}
}

func TestPreviewLineCountWideValues(t *testing.T) {
	values := []string{"日本語のテキスト", "🙂 emoji 🙂🙂", "plain"}
	for _, v := range values {
		cmd := Parse(cheat("printf '%s' <V> | tee <V>.log\nwc -c <V>.log"), nil, nil)
		cmd.SetValue(0, v)
		for width := 2; width <= 30; width++ {
			rows := cmd.PreviewRows(width)
			assert.Equal(t, cmd.PreviewLineCount(width), len(rows), "%q at width %d", v, width)
			for _, row := range rows {
				assert.LessOrEqual(t, lipgloss.Width(row.String()), width, "%q at width %d", v, width)
			}
		}
	}
}
