package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/wallr/internal/config"
)

const AppName = "wallr"

// LogoLines is the canonical logo.
var LogoLines = []string{
	"█   █ ▄▀▀▄ █    █    █▀▀▄",
	"█ █ █ █▄▄█ █    █    █▄▄▀",
	"▀▄▀▄▀ █  █ █▄▄▄ █▄▄▄ █  █",
}

const CompactLogo = `wallr ›`

// Brand colors. applyTheme replaces them from the config.
var (
	PrimaryColor   = lipgloss.Color("#7AA2F7")
	SecondaryColor = lipgloss.Color("#BB9AF7")
	AccentColor    = lipgloss.Color("#E0AF68")

	TextColor    = lipgloss.Color("#C0CAF5")
	MutedColor   = lipgloss.Color("#565F89")
	ErrorColor   = lipgloss.Color("#F7768E")
	SuccessColor = lipgloss.Color("#9ECE6A")
)

var (
	LogoStyle          lipgloss.Style
	TitleStyle         lipgloss.Style
	HeaderStyle        lipgloss.Style
	StatusBarStyle     lipgloss.Style
	FavoriteStyle      lipgloss.Style
	SelectedItemStyle  lipgloss.Style
	HelpStyle          lipgloss.Style
	TimeStyle          lipgloss.Style
	SuggestionStyle    lipgloss.Style
	ErrorMessageStyle  lipgloss.Style
	SeparatorStyle     lipgloss.Style
	StatusInfoStyle    lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusWarnStyle    lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	EmptyStyle         = lipgloss.NewStyle()
)

func init() {
	buildStyles()
}

func buildStyles() {
	LogoStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Padding(0, 1)

	FavoriteStyle = lipgloss.NewStyle().
		Foreground(AccentColor).
		Bold(true)

	SelectedItemStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Italic(true)

	TimeStyle = lipgloss.NewStyle().
		Foreground(MutedColor).
		Faint(true)

	SuggestionStyle = lipgloss.NewStyle().
		Foreground(TextColor)

	ErrorMessageStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusInfoStyle = lipgloss.NewStyle().
		Foreground(MutedColor)

	StatusSuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessColor)

	StatusWarnStyle = lipgloss.NewStyle().
		Foreground(AccentColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)
}

// applyTheme swaps in configured colors; empty entries keep the defaults.
func applyTheme(c config.UIColors) {
	set := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	set(&PrimaryColor, c.Primary)
	set(&SecondaryColor, c.Secondary)
	set(&AccentColor, c.Accent)
	set(&TextColor, c.Text)
	set(&MutedColor, c.Muted)
	set(&ErrorColor, c.Error)
	set(&SuccessColor, c.Success)
	buildStyles()
}

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

func GetWelcomeMessage() string {
	return GetCompactBanner("Press / to search wallpapers")
}

func GetCompactBanner(message string) string {
	var coloredLines []string
	for _, line := range LogoLines {
		coloredLines = append(coloredLines, LogoStyle.Render(line))
	}

	logo := lipgloss.JoinVertical(lipgloss.Center, coloredLines...)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		logo,
		"",
		HelpStyle.Render(message),
	)
}

// Banner renders the logo with a version tagline for the CLI.
func Banner(version string) string {
	lines := append([]string{}, LogoLines...)
	lines = append(lines, "")

	tagline := "Wallhaven Browser"
	if version != "" && version != "dev" {
		if version[0] != 'v' && version[0] != 'V' {
			version = "v" + version
		}
		tagline = fmt.Sprintf("%s %s", tagline, version)
	}
	lines = append(lines, tagline)

	gradient := []lipgloss.Color{PrimaryColor, SecondaryColor, AccentColor}
	var colored []string
	for i, line := range lines {
		if line == "" {
			colored = append(colored, line)
			continue
		}
		style := lipgloss.NewStyle().
			Foreground(gradient[i%len(gradient)]).
			Bold(i < len(LogoLines))
		colored = append(colored, style.Render(line))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SecondaryColor).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, colored...))
}

func ShowBanner(version string) {
	fmt.Println(Banner(version))
}
