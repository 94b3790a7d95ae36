// =============================
// File: internal/ui/explorer.go
// =============================
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/pump-sdk/internal/logger"
	"github.com/rovshanmuradov/pump-sdk/internal/ui/component"
	"github.com/rovshanmuradov/pump-sdk/internal/ui/style"
	"github.com/rovshanmuradov/pump-sdk/pkg/client"
	"github.com/rovshanmuradov/pump-sdk/pkg/pumpfun"
)

// Quoter is the part of *client.Client the explorer uses.
type Quoter interface {
	FetchBondingCurve(ctx context.Context, mint solana.PublicKey) (*pumpfun.BondingCurve, error)
	QuoteBuy(ctx context.Context, mint solana.PublicKey, solAmount uint64) (*client.Quote, error)
	QuoteSell(ctx context.Context, mint solana.PublicKey, tokenAmount uint64) (*client.Quote, error)
	InvalidateMint(mint solana.PublicKey)
}

// Side of the quoted trade
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "sell"
	}
	return "buy"
}

// Params seeds the explorer inputs
type Params struct {
	Mint    string
	Amount  string
	Side    Side
	Timeout time.Duration
}

const (
	fieldMint = iota
	fieldAmount
)

// quoteResultMsg carries the outcome of one fetch
type quoteResultMsg struct {
	curve *pumpfun.BondingCurve
	quote *client.Quote
	side  Side
	err   error
}

// Model is the bubbletea model of the quote explorer
type Model struct {
	quoter Quoter
	logger *zap.Logger
	keys   KeyMap
	help   help.Model
	styles style.Styles

	mintInput   textinput.Model
	amountInput textinput.Model
	focus       int
	side        Side

	spinner spinner.Model
	loading bool
	timeout time.Duration

	curve     *pumpfun.BondingCurve
	quote     *client.Quote
	quoteSide Side
	err       error

	logs  *component.LogPane
	width int
}

// NewModel creates the explorer. ring may be nil.
func NewModel(quoter Quoter, log *zap.Logger, ring *logger.Ring, params Params) *Model {
	styles := style.NewStyles(style.DefaultPalette())

	mintInput := textinput.New()
	mintInput.Placeholder = "mint address"
	mintInput.CharLimit = 44
	mintInput.Width = 46
	mintInput.SetValue(params.Mint)
	mintInput.Focus()

	amountInput := textinput.New()
	amountInput.Placeholder = "amount"
	amountInput.CharLimit = 32
	amountInput.Width = 20
	amountInput.SetValue(params.Amount)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Muted

	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Model{
		quoter:      quoter,
		logger:      log.Named("explorer"),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		styles:      styles,
		mintInput:   mintInput,
		amountInput: amountInput,
		side:        params.Side,
		spinner:     sp,
		timeout:     timeout,
		logs:        component.NewLogPane(ring, styles, zapcore.InfoLevel, 50),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.logs.SetSize(msg.Width, msg.Height/4)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case quoteResultMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.curve, m.quote = nil, nil
			m.logger.Warn("Quote failed", zap.Error(msg.err))
			return m, nil
		}
		m.curve = msg.curve
		m.quote = msg.quote
		m.quoteSide = msg.side
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Quote):
		return m.requestQuote(false)
	case key.Matches(msg, m.keys.Refresh):
		return m.requestQuote(true)
	case key.Matches(msg, m.keys.NextField):
		return m.cycleFocus()
	case key.Matches(msg, m.keys.ToggleSide):
		if m.side == SideBuy {
			m.side = SideSell
		} else {
			m.side = SideBuy
		}
		return nil
	case key.Matches(msg, m.keys.ToggleLogs):
		m.logs.Toggle()
		return nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == fieldMint {
		m.mintInput, cmd = m.mintInput.Update(msg)
	} else {
		m.amountInput, cmd = m.amountInput.Update(msg)
	}
	return cmd
}

func (m *Model) cycleFocus() tea.Cmd {
	if m.focus == fieldMint {
		m.focus = fieldAmount
		m.mintInput.Blur()
		return m.amountInput.Focus()
	}
	m.focus = fieldMint
	m.amountInput.Blur()
	return m.mintInput.Focus()
}

// requestQuote validates the inputs and starts a fetch
func (m *Model) requestQuote(refresh bool) tea.Cmd {
	mint, err := solana.PublicKeyFromBase58(strings.TrimSpace(m.mintInput.Value()))
	if err != nil {
		m.err = fmt.Errorf("invalid mint: %w", err)
		return nil
	}

	side := m.side
	var amount uint64
	if side == SideBuy {
		amount, err = pumpfun.ParseSol(m.amountInput.Value())
	} else {
		amount, err = pumpfun.ParseTokens(m.amountInput.Value())
	}
	if err != nil {
		m.err = err
		return nil
	}

	m.err = nil
	m.loading = true
	return tea.Batch(m.spinner.Tick, fetchQuote(m.quoter, m.timeout, mint, amount, side, refresh))
}

func fetchQuote(quoter Quoter, timeout time.Duration, mint solana.PublicKey, amount uint64, side Side, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if refresh {
			quoter.InvalidateMint(mint)
		}
		curve, err := quoter.FetchBondingCurve(ctx, mint)
		if err != nil {
			return quoteResultMsg{err: err}
		}

		var quote *client.Quote
		if side == SideBuy {
			quote, err = quoter.QuoteBuy(ctx, mint, amount)
		} else {
			quote, err = quoter.QuoteSell(ctx, mint, amount)
		}
		return quoteResultMsg{curve: curve, quote: quote, side: side, err: err}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("pump.fun quote explorer"))
	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("Mint") + m.mintInput.View() + "\n")

	sideLabel := m.styles.Buy.Render("BUY  SOL")
	if m.side == SideSell {
		sideLabel = m.styles.Sell.Render("SELL tokens")
	}
	b.WriteString(m.styles.Label.Render(sideLabel) + m.amountInput.View() + "\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " fetching...\n")
	case m.err != nil:
		b.WriteString(m.styles.Error.Render("error: "+m.err.Error()) + "\n")
	default:
		b.WriteString("\n")
	}

	var panels []string
	if m.curve != nil {
		panels = append(panels, m.styles.Panel.Render(m.curveView()))
	}
	if m.quote != nil {
		panels = append(panels, m.styles.Panel.Render(m.quoteView()))
	}
	if len(panels) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels...))
		b.WriteString("\n")
	}

	if m.logs.Visible() {
		b.WriteString(m.logs.View())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) row(label, value string) string {
	return m.styles.Label.Render(label) + m.styles.Value.Render(value)
}

func (m *Model) curveView() string {
	c := m.curve
	status := "active"
	if c.Complete {
		status = "complete (migrated)"
	}
	mcap := "overflow"
	if lamports, err := pumpfun.BondingCurveMarketCap(c); err == nil {
		mcap = pumpfun.LamportsToSol(lamports).StringFixed(3) + " SOL"
	}

	rows := []string{
		m.styles.Muted.Render("Bonding curve"),
		m.row("Status", status),
		m.row("Virtual SOL", pumpfun.LamportsToSol(c.VirtualSolReserves).String()),
		m.row("Virtual tokens", pumpfun.TokensToUI(c.VirtualTokenReserves).String()),
		m.row("Real SOL", pumpfun.LamportsToSol(c.RealSolReserves).String()),
		m.row("Real tokens", pumpfun.TokensToUI(c.RealTokenReserves).String()),
		m.row("Spot price", pumpfun.SpotPrice(c).String()+" SOL"),
		m.row("Market cap", mcap),
	}
	if c.HasCreator() {
		rows = append(rows, m.row("Creator", c.Creator.String()))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) quoteView() string {
	q := m.quote
	rows := []string{
		m.styles.Muted.Render("Quote (" + m.quoteSide.String() + ")"),
		m.row("Venue", q.Venue.String()),
	}
	if m.quoteSide == SideBuy {
		rows = append(rows,
			m.row("Pay", pumpfun.LamportsToSol(q.In).String()+" SOL"),
			m.row("Receive", pumpfun.TokensToUI(q.Out).String()+" tokens"),
			m.row("Max SOL cost", pumpfun.LamportsToSol(q.Limit).String()+" SOL"),
		)
	} else {
		rows = append(rows,
			m.row("Sell", pumpfun.TokensToUI(q.In).String()+" tokens"),
			m.row("Receive", pumpfun.LamportsToSol(q.Out).String()+" SOL"),
			m.row("Min SOL out", pumpfun.LamportsToSol(q.Limit).String()+" SOL"),
		)
	}
	return strings.Join(rows, "\n")
}

// Run starts the explorer on the alternate screen
func Run(quoter Quoter, log *zap.Logger, ring *logger.Ring, params Params) error {
	_, err := tea.NewProgram(NewModel(quoter, log, ring, params), tea.WithAltScreen()).Run()
	return err
}
