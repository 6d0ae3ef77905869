package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"sheetstack/internal/compiler"
	"sheetstack/internal/config"
	"sheetstack/internal/types"
)

type state int

const (
	stateScanning state = iota
	stateConfirm
	stateProcessing
	stateComplete
	stateEmpty
	stateError
)

type Model struct {
	state        state
	cfg          config.Config
	files        []string
	currentFile  string
	result       *types.CompileResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan compiler.Progress
	resultChan   chan runResultMsg
	cancel       context.CancelFunc
}

type filesScannedMsg struct {
	files []string
	err   error
}

type runResultMsg struct {
	result *types.CompileResult
	err    error
}

type progressMsg compiler.Progress

type waitForProgressMsg struct{}

func NewModel(cfg config.Config) Model {
	prog := progress.New(progress.WithGradient("#36B37E", "#57D9A3"))

	return Model{
		state:    stateScanning,
		cfg:      cfg,
		progress: prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.scanReadyDir()
}

func (m Model) scanReadyDir() tea.Cmd {
	dir := m.cfg.ReadyDir
	return func() tea.Msg {
		files, err := compiler.ListInputs(dir)
		return filesScannedMsg{files: files, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateConfirm:
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			case "r":
				m.state = stateScanning
				return m, m.scanReadyDir()
			case "enter":
				m.state = stateProcessing
				return m.startRun()
			}

		case stateProcessing:
			switch msg.String() {
			case "ctrl+c", "q":
				if m.cancel != nil {
					m.cancel()
				}
				return m, tea.Quit
			}

		case stateComplete, stateEmpty, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case filesScannedMsg:
		// A missing ready folder reads the same as an empty one
		if msg.err != nil {
			m.files = nil
		} else {
			m.files = msg.files
		}
		if len(m.files) == 0 {
			m.state = stateEmpty
			return m, nil
		}
		m.state = stateConfirm
		return m, nil

	case runResultMsg:
		if compiler.IsEmptyBatch(msg.err) {
			m.state = stateEmpty
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			m.currentFile = msg.File
			percent := 0.0
			if msg.Total > 0 {
				percent = float64(msg.Index-1) / float64(msg.Total)
			}
			cmd := m.progress.SetPercent(percent)
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	return m, nil
}

func (m Model) startRun() (Model, tea.Cmd) {
	m.progressChan = make(chan compiler.Progress, 16)
	m.resultChan = make(chan runResultMsg, 1)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	// Capture for the goroutine
	cfg := m.cfg
	progressChan := m.progressChan
	resultChan := m.resultChan

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := compiler.New(cfg).Run(ctx, progressChan)
				resultChan <- runResultMsg{result: result, err: err}
				close(progressChan)
				close(resultChan)
			}()
			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(),
	)

	return m, cmd
}

func waitForProgress(progressChan chan compiler.Progress, resultChan chan runResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return res
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateScanning:
		return m.viewScanning()
	case stateConfirm:
		return m.viewConfirm()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateEmpty:
		return m.viewEmpty()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewScanning() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Sheetstack"))
	s.WriteString("\n\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Scanning %s ...", m.cfg.ReadyDir)))

	return BoxStyle.Render(s.String())
}

func (m Model) viewConfirm() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Sheetstack - Spreadsheet Compiler"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Found %d file(s) in %s", len(m.files), m.cfg.ReadyDir)))
	s.WriteString("\n\n")

	for _, file := range m.files {
		s.WriteString(FileStyle.Render("  • " + filepath.Base(file)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Output folder: %s", m.cfg.OutputDir)))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("Archive folder: %s", m.cfg.DoneDir)))
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: compile • r: rescan • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("📊 Compiling..."))
	s.WriteString("\n\n")
	if m.currentFile != "" {
		s.WriteString(fmt.Sprintf("Processing %s", m.currentFile))
		s.WriteString("\n\n")
	}
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Compilation Complete!"))
	s.WriteString("\n\n")

	// Truncate the path if it is too long for the window
	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	outputPath := m.result.OutputFile
	if len(outputPath) > maxPathLen {
		outputPath = "..." + outputPath[len(outputPath)-maxPathLen+3:]
	}

	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", outputPath)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Files combined: %d\n", len(m.result.Processed)))
	if len(m.result.Skipped) > 0 {
		s.WriteString(fmt.Sprintf("Files skipped:  %d\n", len(m.result.Skipped)))
	}
	s.WriteString(fmt.Sprintf("Rows written:   %d\n", m.result.RowsOut))
	s.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(m.result.Columns, ", ")))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewEmpty() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("Nothing to process"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("No spreadsheets with data found in %s\n", m.cfg.ReadyDir))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
