package theme

import "github.com/charmbracelet/lipgloss"

// Nord https://www.nordtheme.com/
var Nord = Theme{
	Name:       "nord",
	Background: lipgloss.Color("#2E3440"),
	Foreground: lipgloss.Color("#ECEFF4"),
	Subtle:     lipgloss.Color("#4C566A"),
	Highlight:  lipgloss.Color("#3B4252"),
	Border:     lipgloss.Color("#4C566A"),

	Primary:   lipgloss.Color("#88C0D0"),
	Secondary: lipgloss.Color("#81A1C1"),
	Info:      lipgloss.Color("#5E81AC"),
	Success:   lipgloss.Color("#A3BE8C"),
	Warning:   lipgloss.Color("#EBCB8B"),
	Error:     lipgloss.Color("#BF616A"),

	ColumnTodo:       lipgloss.Color("#5E81AC"),
	ColumnInProgress: lipgloss.Color("#EBCB8B"),
	ColumnDone:       lipgloss.Color("#A3BE8C"),

	Points:        lipgloss.Color("#EBCB8B"),
	ProgressStart: "#5E81AC",
	ProgressEnd:   "#A3BE8C",
}

// Dracula https://draculatheme.com/
var Dracula = Theme{
	Name:       "dracula",
	Background: lipgloss.Color("#282A36"),
	Foreground: lipgloss.Color("#F8F8F2"),
	Subtle:     lipgloss.Color("#6272A4"),
	Highlight:  lipgloss.Color("#44475A"),
	Border:     lipgloss.Color("#6272A4"),

	Primary:   lipgloss.Color("#BD93F9"),
	Secondary: lipgloss.Color("#FF79C6"),
	Info:      lipgloss.Color("#8BE9FD"),
	Success:   lipgloss.Color("#50FA7B"),
	Warning:   lipgloss.Color("#F1FA8C"),
	Error:     lipgloss.Color("#FF5555"),

	ColumnTodo:       lipgloss.Color("#8BE9FD"),
	ColumnInProgress: lipgloss.Color("#FFB86C"),
	ColumnDone:       lipgloss.Color("#50FA7B"),

	Points:        lipgloss.Color("#F1FA8C"),
	ProgressStart: "#BD93F9",
	ProgressEnd:   "#50FA7B",
}

// Gruvbox https://github.com/morhetz/gruvbox
var Gruvbox = Theme{
	Name:       "gruvbox",
	Background: lipgloss.Color("#282828"),
	Foreground: lipgloss.Color("#EBDBB2"),
	Subtle:     lipgloss.Color("#928374"),
	Highlight:  lipgloss.Color("#3C3836"),
	Border:     lipgloss.Color("#665C54"),

	Primary:   lipgloss.Color("#FABD2F"),
	Secondary: lipgloss.Color("#83A598"),
	Info:      lipgloss.Color("#458588"),
	Success:   lipgloss.Color("#B8BB26"),
	Warning:   lipgloss.Color("#FE8019"),
	Error:     lipgloss.Color("#FB4934"),

	ColumnTodo:       lipgloss.Color("#83A598"),
	ColumnInProgress: lipgloss.Color("#FE8019"),
	ColumnDone:       lipgloss.Color("#B8BB26"),

	Points:        lipgloss.Color("#FABD2F"),
	ProgressStart: "#458588",
	ProgressEnd:   "#B8BB26",
}

// Catppuccin Mocha https://github.com/catppuccin/catppuccin
var Catppuccin = Theme{
	Name:       "catppuccin",
	Background: lipgloss.Color("#1E1E2E"),
	Foreground: lipgloss.Color("#CDD6F4"),
	Subtle:     lipgloss.Color("#6C7086"),
	Highlight:  lipgloss.Color("#313244"),
	Border:     lipgloss.Color("#45475A"),

	Primary:   lipgloss.Color("#CBA6F7"),
	Secondary: lipgloss.Color("#F5C2E7"),
	Info:      lipgloss.Color("#89B4FA"),
	Success:   lipgloss.Color("#A6E3A1"),
	Warning:   lipgloss.Color("#F9E2AF"),
	Error:     lipgloss.Color("#F38BA8"),

	ColumnTodo:       lipgloss.Color("#89B4FA"),
	ColumnInProgress: lipgloss.Color("#FAB387"),
	ColumnDone:       lipgloss.Color("#A6E3A1"),

	Points:        lipgloss.Color("#F9E2AF"),
	ProgressStart: "#CBA6F7",
	ProgressEnd:   "#A6E3A1",
}
