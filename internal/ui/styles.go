// Package ui provides consistent styling for the padwatch CLI
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/bnema/padwatch/internal/input"
	"github.com/charmbracelet/lipgloss"
)

// Color palette - consistent across the application
var (
	ColorPrimary   = lipgloss.Color("39")  // Bright blue
	ColorSecondary = lipgloss.Color("205") // Pink/magenta
	ColorSuccess   = lipgloss.Color("82")  // Green
	ColorWarning   = lipgloss.Color("214") // Orange
	ColorError     = lipgloss.Color("196") // Red
	ColorInfo      = lipgloss.Color("86")  // Cyan

	ColorText   = lipgloss.Color("252") // Light gray
	ColorSubtle = lipgloss.Color("241") // Medium gray
	ColorMuted  = lipgloss.Color("238") // Dark gray

	ColorConnected    = ColorSuccess
	ColorDisconnected = ColorError
)

// Base styles - building blocks for other styles
var (
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubheaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(18)

	ComboStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)
)

var (
	ConnectedIndicator = lipgloss.NewStyle().
				Foreground(ColorConnected).
				Render("●")

	DisconnectedIndicator = lipgloss.NewStyle().
				Foreground(ColorDisconnected).
				Render("○")
)

// Icons
var (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "!"
	IconPad     = "◆"
	IconHotkey  = "⚡"
)

// FormatHeader renders a section title with a separator under it
func FormatHeader(title string) string {
	return HeaderStyle.Render(title) + "\n" + CreateSeparator(50, "─")
}

// FormatStatus renders a connection indicator followed by status
func FormatStatus(connected bool, status string) string {
	indicator := DisconnectedIndicator
	if connected {
		indicator = ConnectedIndicator
	}
	return indicator + " " + status
}

// FormatKV renders an aligned "key  value" line
func FormatKV(key string, value any) string {
	return "  " + KeyStyle.Render(key) + TextStyle.Render(fmt.Sprint(value))
}

// FormatDevice renders one identity as a list item
func FormatDevice(id input.DeviceIdentity) string {
	line := "  " + SuccessStyle.Render(IconPad) + " " + BoldStyle.Render(id.DisplayName)
	if id.HasIDs() {
		line += SubtleStyle.Render(fmt.Sprintf(" [%04x:%04x]", *id.VendorID, *id.ProductID))
	}
	return line + SubtleStyle.Render(" "+id.ConnectionKind.String())
}

// FormatSourceHeader renders an adapter heading for the list command
func FormatSourceHeader(source input.SourceAPI, available bool, count int) string {
	name := SubheaderStyle.Render(source.String())
	switch {
	case !available:
		return name + " " + SubtleStyle.Render("(unavailable)")
	case count == 0:
		return name + " " + SubtleStyle.Render("(no controllers)")
	default:
		return name + " " + InfoStyle.Render(fmt.Sprintf("(%d)", count))
	}
}

// FormatState renders a unified query answer
func FormatState(st input.ControllerState) string {
	if !st.IsConnected {
		return FormatStatus(false, "No controller connected")
	}
	name := "Game Controller"
	if st.Identity != nil {
		name = st.Identity.DisplayName
	}
	return FormatStatus(true, BoldStyle.Render(name)+SubtleStyle.Render(" via "+st.SourceAPI.String()))
}

// FormatEvent renders an engine event as one timestamped line
func FormatEvent(ev engine.Event) string {
	ts := SubtleStyle.Render(ev.Time().Format(time.TimeOnly))

	switch e := ev.(type) {
	case engine.ConnectionDetected:
		return fmt.Sprintf("%s %s %s %s", ts,
			SuccessStyle.Render(IconPad+" connected"),
			BoldStyle.Render(e.Identity.DisplayName),
			SubtleStyle.Render("via "+e.SourceAPI.String()+", "+e.Identity.ConnectionKind.String()))
	case engine.HotkeyFired:
		return fmt.Sprintf("%s %s %s", ts,
			WarningStyle.Render(IconHotkey+" hotkey"),
			ComboStyle.Render(e.Combination.String()))
	default:
		return ts + " " + ev.Kind()
	}
}

// FormatError renders an error line
func FormatError(msg string) string {
	return ErrorStyle.Render(IconError) + " " + msg
}

// FormatWarning renders a warning line
func FormatWarning(msg string) string {
	return WarningStyle.Render(IconWarning) + " " + msg
}

// FormatSuccess renders a success line
func FormatSuccess(msg string) string {
	return SuccessStyle.Render(IconSuccess) + " " + msg
}

// CreateSeparator creates a horizontal line separator
func CreateSeparator(width int, char string) string {
	if width <= 0 {
		width = 50 // Default width
	}
	if char == "" {
		char = "─"
	}

	return lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Render(strings.Repeat(char, width))
}
