package peerlist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dukerupert/wgpeerctl/internal/peerops"
	"github.com/dukerupert/wgpeerctl/tui"
)

type phase int

const (
	phaseList phase = iota
	phaseDetail
	phaseConfirm
	phaseRemoving
)

type removeDoneMsg struct {
	res   *peerops.Result
	peers []peerops.PeerInfo
	err   error
}

// Model is the peer browser screen: navigate the configured peers, inspect
// one, and remove it through the same pipeline the CLI uses.
type Model struct {
	svc   *peerops.Service
	peers []peerops.PeerInfo

	phase  phase
	cursor int

	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int

	status string // last operation outcome, shown above the list
	err    error
}

// New creates the peer browser over an already-loaded peer list.
func New(svc *peerops.Service, peers []peerops.PeerInfo) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = tui.SpinnerStyle

	return Model{
		svc:     svc,
		peers:   peers,
		spinner: s,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

const headerHeight = 4
const footerHeight = 2

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		if m.phase == phaseDetail {
			m.viewport.Width = ws.Width
			m.viewport.Height = ws.Height - headerHeight - footerHeight
		}
	}

	switch m.phase {
	case phaseList:
		return m.updateList(msg)
	case phaseDetail:
		return m.updateDetail(msg)
	case phaseConfirm:
		return m.updateConfirm(msg)
	case phaseRemoving:
		return m.updateRemoving(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.peers)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.peers) == 0 {
				return m, nil
			}
			m.phase = phaseDetail
			m.initViewport()
		case "d":
			if len(m.peers) == 0 {
				return m, nil
			}
			m.phase = phaseConfirm
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) initViewport() {
	vpHeight := m.height - headerHeight - footerHeight
	if vpHeight < 1 {
		vpHeight = 20 // fallback before the first WindowSizeMsg
	}
	m.viewport = viewport.New(m.width, vpHeight)
	m.viewport.SetContent(m.renderDetail())
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "enter":
			m.phase = phaseList
			return m, nil
		case "d":
			m.phase = phaseConfirm
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y":
			m.phase = phaseRemoving
			return m, tea.Batch(m.spinner.Tick, m.removePeer())
		case "n", "esc":
			m.phase = phaseList
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateRemoving(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case removeDoneMsg:
		m.phase = phaseList
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.res.Status
			m.peers = msg.peers
			if m.cursor >= len(m.peers) && m.cursor > 0 {
				m.cursor = len(m.peers) - 1
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) removePeer() tea.Cmd {
	svc := m.svc
	identity := m.peers[m.cursor].PublicKey
	return func() tea.Msg {
		res, err := svc.Remove(identity, "")
		if err != nil {
			return removeDoneMsg{err: err}
		}
		peers, err := svc.Peers()
		return removeDoneMsg{res: res, peers: peers, err: err}
	}
}

func (m Model) renderDetail() string {
	var b strings.Builder
	p := m.peers[m.cursor]
	b.WriteString("  [Peer]\n")
	for _, line := range p.Lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func shortKey(key string) string {
	if len(key) <= 16 {
		return key
	}
	return key[:8] + "…" + key[len(key)-8:]
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("WireGuard Peers"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(tui.ErrorStyle.Render("Error: "))
		b.WriteString(m.err.Error())
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(tui.SuccessStyle.Render(m.status))
		b.WriteString("\n")
	}

	switch m.phase {
	case phaseList:
		if len(m.peers) == 0 {
			b.WriteString("No peers configured.\n")
			b.WriteString(tui.HelpStyle.Render("\nq: quit"))
			break
		}
		for i, p := range m.peers {
			line := fmt.Sprintf("    %s  %s", shortKey(p.PublicKey), p.AllowedIPs)
			if i == m.cursor {
				line = tui.CursorStyle.Render("  > " + fmt.Sprintf("%s  %s", shortKey(p.PublicKey), p.AllowedIPs))
			}
			b.WriteString(line + "\n")
		}
		b.WriteString(tui.HelpStyle.Render("\nj/k: navigate  enter: inspect  d: remove  q: quit"))

	case phaseDetail:
		p := m.peers[m.cursor]
		b.WriteString(tui.LabelStyle.Render("Peer:") + " " + tui.ValueStyle.Render(p.PublicKey))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(tui.HelpStyle.Render("j/k: scroll  d: remove  esc: back  q: quit"))

	case phaseConfirm:
		p := m.peers[m.cursor]
		b.WriteString(tui.WarnStyle.Render(fmt.Sprintf("Remove peer %s?", p.PublicKey)))
		b.WriteString("\n")
		b.WriteString("The file is snapshotted before removal.\n")
		b.WriteString(tui.HelpStyle.Render("\ny: remove  n: cancel"))

	case phaseRemoving:
		b.WriteString(m.spinner.View())
		b.WriteString(" Removing peer...")
	}

	return b.String()
}
