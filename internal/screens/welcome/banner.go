package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██████╗  ██████╗ ███████╗██╗██╗     ███████╗██████╗
 ██╔══██╗██╔══██╗██╔═══██╗██╔════╝██║██║     ██╔════╝██╔══██╗
 ██████╔╝██████╔╝██║   ██║█████╗  ██║██║     █████╗  ██████╔╝
 ██╔═══╝ ██╔══██╗██║   ██║██╔══╝  ██║██║     ██╔══╝  ██╔══██╗
 ██║     ██║  ██║╚██████╔╝██║     ██║███████╗███████╗██║  ██║
 ╚═╝     ╚═╝  ╚═╝ ╚═════╝ ╚═╝     ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝`

const bannerCompact = "P R O F I L E R"

// bannerMinWidth is the widest line of bannerArt plus a margin.
const bannerMinWidth = 64

// RenderBanner returns the banner in the primary color, or a one-line
// version on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
