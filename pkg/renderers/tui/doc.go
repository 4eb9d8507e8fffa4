// Package tui prints tracking pages to a terminal and prompts for input.
//
// CardRenderer draws a view.Page as a lipgloss card and satisfies
// render.Renderer so the CLI can resolve it from the same registry as the
// HTML and JSON renderers. PromptDriver wraps survey for interactive input.
package tui
