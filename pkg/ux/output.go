// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides rich terminal output styling for the gallery CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Gallery color palette - violet ultraviolet tones for the AI art theme
var (
	ColorVioletBright  = lipgloss.Color("#B69CFF") // Bright violet - highlights, success
	ColorVioletPrimary = lipgloss.Color("#8E6FE8") // Primary violet - main brand color
	ColorVioletDeep    = lipgloss.Color("#5E43B8") // Deep violet - borders, accents
	ColorInk           = lipgloss.Color("#2B2440") // Ink - muted text

	// Semantic colors
	ColorSuccess = lipgloss.Color("#B69CFF")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// styled reports whether stdout accepts escape sequences. Piped output
// stays plain so scripts can parse it.
var styled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
	Box       lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorVioletBright),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorInk),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorVioletBright).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorVioletDeep).
		Padding(0, 1),
}

func render(style lipgloss.Style, text string) string {
	if !styled {
		return text
	}
	return style.Render(text)
}

// Title prints a bold section heading.
func Title(text string) {
	fmt.Println(render(Styles.Title, text))
}

// Success prints a checkmarked success line.
func Success(text string) {
	fmt.Println(render(Styles.Success, "✓ "+text))
}

// Warning prints a warning line.
func Warning(text string) {
	fmt.Println(render(Styles.Warning, "⚠ "+text))
}

// Error prints an error line to stderr.
func Error(text string) {
	fmt.Fprintln(os.Stderr, render(Styles.Error, "✗ "+text))
}

// Info prints an arrowed progress line.
func Info(text string) {
	fmt.Println(render(Styles.Bold, "→ "+text))
}

// Muted prints a de-emphasized line.
func Muted(text string) {
	fmt.Println(render(Styles.Muted, text))
}

// Box prints content in a rounded border with a title, or plain indented
// text when stdout is not a terminal.
func Box(title, content string) {
	if !styled {
		fmt.Printf("%s\n  %s\n", title, content)
		return
	}
	fmt.Println(Styles.Box.Render(Styles.Title.Render(title) + "\n" + content))
}
