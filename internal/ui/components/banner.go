// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/ui/styles"
	"github.com/Roger-Zhou0/llm-assistant-tui/internal/util"
)

// =============================================================================
// BANNER
// =============================================================================

// BannerKind selects the banner's visual treatment.
type BannerKind int

const (
	BannerError BannerKind = iota
	BannerInfo
)

// Banner is a dismissable one-line notice shown above a view's content.
// Unlike a modal, it never blocks input; the underlying view keeps working.
type Banner struct {
	theme   *styles.Theme
	kind    BannerKind
	message string
	visible bool
}

// NewBanner creates an empty, hidden banner.
func NewBanner(theme *styles.Theme) Banner {
	return Banner{theme: theme}
}

// ShowError displays an error notice.
func (b *Banner) ShowError(message string) {
	b.kind = BannerError
	b.message = message
	b.visible = true
}

// ShowInfo displays an informational notice.
func (b *Banner) ShowInfo(message string) {
	b.kind = BannerInfo
	b.message = message
	b.visible = true
}

// Dismiss hides the banner.
func (b *Banner) Dismiss() {
	b.visible = false
	b.message = ""
}

// Visible reports whether the banner is showing.
func (b *Banner) Visible() bool {
	return b.visible
}

// View renders the banner, empty when hidden. width bounds the line.
func (b *Banner) View(width int) string {
	if !b.visible {
		return ""
	}
	msg := util.FirstLine(b.message)
	if width > 8 {
		msg = util.TruncateWidth(msg, width-8)
	}
	msg += "  (esc to dismiss)"
	if b.kind == BannerError {
		return b.theme.ErrorBanner.Render(msg)
	}
	return b.theme.InfoBanner.Render(msg)
}
