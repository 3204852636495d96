package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathapp/internal/ui/theme"
)

const bannerArt = `
 ███╗   ███╗ █████╗ ████████╗██╗  ██╗ █████╗ ██████╗ ██████╗
 ████╗ ████║██╔══██╗╚══██╔══╝██║  ██║██╔══██╗██╔══██╗██╔══██╗
 ██╔████╔██║███████║   ██║   ███████║███████║██████╔╝██████╔╝
 ██║╚██╔╝██║██╔══██║   ██║   ██╔══██║██╔══██║██╔═══╝ ██╔═══╝
 ██║ ╚═╝ ██║██║  ██║   ██║   ██║  ██║██║  ██║██║     ██║
 ╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝`

const bannerCompact = "M A T H A P P"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 64

// RenderBanner returns the banner styled in the primary color, or the
// compact form on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
