package ui

import "github.com/fatih/color"

// General Purpose Colors
var (
	InfoColor    = color.New(color.FgCyan).SprintFunc()
	SuccessColor = color.New(color.FgGreen).SprintFunc()
	WarningColor = color.New(color.FgYellow).SprintFunc()
	ErrorColor   = color.New(color.FgRed).SprintFunc()
	DetailColor  = color.New(color.FgHiBlack).SprintFunc() // For stack traces and script paths
)

// Alias Specific Colors
var (
	AliasNameColor = color.New(color.FgYellow).SprintFunc()
	AliasCmdColor  = color.New(color.FgWhite).SprintFunc()
)

// Header Colors
var (
	HeaderColor = color.New(color.FgGreen, color.Bold).SprintFunc()
)
