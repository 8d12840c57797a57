package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// XXX: For now, this is in its own package so that it can be shared between
// different packages without incurring an illegal import cycle.

// Styles defines styles for the UI.
type Styles struct {
	ActiveBorderColor   lipgloss.Color
	InactiveBorderColor lipgloss.Color

	App    lipgloss.Style
	Header lipgloss.Style
	Banner lipgloss.Style

	TeamName     lipgloss.Style
	TeamNameEdit lipgloss.Style
	TeamScore    lipgloss.Style
	TeamPfp      lipgloss.Style
	Readonly     lipgloss.Style

	MemberRow       lipgloss.Style
	MemberRowActive lipgloss.Style
	MemberName      lipgloss.Style
	MemberEmail     lipgloss.Style
	MemberOwner     lipgloss.Style
	InviteLink      lipgloss.Style
	Button          lipgloss.Style
	ButtonActive    lipgloss.Style
	Selector        lipgloss.Style

	DropZone         lipgloss.Style
	DropZoneDragging lipgloss.Style
	DropZoneBusy     lipgloss.Style

	BuildOK      lipgloss.Style
	BuildPending lipgloss.Style
	BuildFailed  lipgloss.Style
	ActiveBot    lipgloss.Style

	ScoreUp    lipgloss.Style
	ScoreDown  lipgloss.Style
	GameError  lipgloss.Style
	Paginator  lipgloss.Style
	NoContent  lipgloss.Style
	TableHead  lipgloss.Style
	TableCell  lipgloss.Style
	TableFocus lipgloss.Style

	Modal       lipgloss.Style
	ModalPrompt lipgloss.Style
	ModalHint   lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	StatusBar      lipgloss.Style
	StatusBarKey   lipgloss.Style
	StatusBarValue lipgloss.Style
	StatusBarInfo  lipgloss.Style
	StatusBarExtra lipgloss.Style
	StatusBarHelp  lipgloss.Style

	Footer      lipgloss.Style
	HelpKey     lipgloss.Style
	HelpValue   lipgloss.Style
	HelpDivider lipgloss.Style

	Error      lipgloss.Style
	ErrorTitle lipgloss.Style
	ErrorBody  lipgloss.Style

	Spinner lipgloss.Style

	TabInactive  lipgloss.Style
	TabActive    lipgloss.Style
	TabSeparator lipgloss.Style
}

// DefaultStyles returns default styles for the UI.
func DefaultStyles(r *lipgloss.Renderer) *Styles {
	highlightColor := lipgloss.Color("210")
	highlightColorDim := lipgloss.Color("174")
	selectorColor := lipgloss.Color("204")
	hintColor := lipgloss.Color("241")
	purple := lipgloss.Color("99")

	s := new(Styles)

	s.ActiveBorderColor = lipgloss.Color("62")
	s.InactiveBorderColor = lipgloss.Color("241")

	s.App = r.NewStyle().
		Margin(1, 2)

	s.Header = r.NewStyle().
		Foreground(lipgloss.Color("62")).
		Height(1).
		Bold(true)

	s.Banner = r.NewStyle().
		MarginBottom(1)

	s.TeamName = r.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	s.TeamNameEdit = r.NewStyle().
		Foreground(highlightColor)

	s.TeamScore = r.NewStyle().
		Foreground(hintColor).
		MarginLeft(2)

	s.TeamPfp = r.NewStyle().
		Foreground(hintColor)

	s.Readonly = r.NewStyle().
		Foreground(hintColor).
		Italic(true)

	s.MemberRow = r.NewStyle().
		PaddingLeft(2)

	s.MemberRowActive = r.NewStyle().
		Foreground(highlightColor)

	s.MemberName = r.NewStyle().
		Width(24)

	s.MemberEmail = r.NewStyle().
		Foreground(hintColor).
		Width(32)

	s.MemberOwner = r.NewStyle().
		Foreground(purple).
		SetString("owner")

	s.InviteLink = r.NewStyle().
		Foreground(lipgloss.Color("39"))

	s.Button = r.NewStyle().
		Foreground(hintColor).
		Padding(0, 1)

	s.ButtonActive = r.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(selectorColor).
		Padding(0, 1)

	s.Selector = r.NewStyle().
		Foreground(selectorColor).
		SetString("> ")

	s.DropZone = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.InactiveBorderColor).
		Padding(0, 2)

	s.DropZoneDragging = s.DropZone.Copy().
		BorderForeground(purple).
		Foreground(lipgloss.Color("189"))

	s.DropZoneBusy = s.DropZone.Copy().
		BorderForeground(highlightColorDim)

	s.BuildOK = r.NewStyle().
		Foreground(lipgloss.Color("42"))

	s.BuildPending = r.NewStyle().
		Foreground(lipgloss.Color("214"))

	s.BuildFailed = r.NewStyle().
		Foreground(lipgloss.Color("203"))

	s.ActiveBot = r.NewStyle().
		Foreground(lipgloss.Color("42")).
		SetString("●")

	s.ScoreUp = r.NewStyle().
		Foreground(lipgloss.Color("42"))

	s.ScoreDown = r.NewStyle().
		Foreground(lipgloss.Color("203"))

	s.GameError = r.NewStyle().
		Foreground(lipgloss.Color("214"))

	s.Paginator = r.NewStyle().
		Foreground(hintColor).
		MarginTop(1)

	s.NoContent = r.NewStyle().
		MarginTop(1).
		MarginLeft(2).
		Foreground(hintColor)

	s.TableHead = r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(s.InactiveBorderColor).
		BorderBottom(true).
		Padding(0, 1)

	s.TableCell = r.NewStyle().
		Padding(0, 1)

	s.TableFocus = r.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62"))

	s.Modal = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 3)

	s.ModalPrompt = r.NewStyle().
		Bold(true)

	s.ModalHint = r.NewStyle().
		Foreground(hintColor).
		MarginTop(1)

	s.ToastInfo = r.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("237")).
		Padding(0, 1)

	s.ToastSuccess = s.ToastInfo.Copy().
		Background(lipgloss.Color("28"))

	s.ToastError = s.ToastInfo.Copy().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("124"))

	s.StatusBar = r.NewStyle().
		Height(1)

	s.StatusBarKey = r.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.Color("206")).
		Foreground(lipgloss.Color("228"))

	s.StatusBarValue = r.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("243"))

	s.StatusBarInfo = r.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color("212")).
		Foreground(lipgloss.Color("230"))

	s.StatusBarExtra = r.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230"))

	s.StatusBarHelp = r.NewStyle().
		Padding(0, 1).
		Background(lipgloss.Color("237")).
		Foreground(lipgloss.Color("243"))

	s.Footer = r.NewStyle().
		MarginTop(1).
		Padding(0, 1).
		Height(1)

	s.HelpKey = r.NewStyle().
		Foreground(lipgloss.Color("241"))

	s.HelpValue = r.NewStyle().
		Foreground(lipgloss.Color("239"))

	s.HelpDivider = r.NewStyle().
		Foreground(lipgloss.Color("237")).
		SetString(" • ")

	s.Error = r.NewStyle().
		MarginTop(2)

	s.ErrorTitle = r.NewStyle().
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("204")).
		Bold(true).
		Padding(0, 1)

	s.ErrorBody = r.NewStyle().
		Foreground(lipgloss.Color("252")).
		MarginLeft(2)

	s.Spinner = r.NewStyle().
		MarginTop(1).
		MarginLeft(2).
		Foreground(lipgloss.Color("205"))

	s.TabInactive = r.NewStyle()

	s.TabActive = r.NewStyle().
		Underline(true).
		Foreground(lipgloss.Color("36"))

	s.TabSeparator = r.NewStyle().
		SetString("│").
		Padding(0, 1).
		Foreground(lipgloss.Color("238"))

	return s
}
