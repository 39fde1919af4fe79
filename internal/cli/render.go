package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/claude/phenix/internal/models"
	"github.com/claude/phenix/internal/priority"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	priorityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	secondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	diagnosisStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1).
			MarginTop(1)
)

func renderSession(w io.Writer, s *models.GeneratedSession) {
	p := s.Params
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Séance %s %s · %s", p.Category, p.Gender, p.Level)))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s : %s · %s · %d joueurs · séance %d/%d",
		p.SessionType(), p.FocusText(), p.CycleMoment, p.PlayerCount, p.SessionNumber, p.SessionsPerWeek)))

	renderExercise(w, "Échauffement", s.Data.Warmup)
	for i, ex := range s.Data.MainPart {
		renderExercise(w, fmt.Sprintf("Exercice %d", i+1), ex)
	}
	renderExercise(w, "Retour au calme", s.Data.Conclusion)

	d := s.Data.Diagnosis
	fmt.Fprintln(w, diagnosisStyle.Render(
		labelStyle.Render(d.Title)+"\n"+d.Explanation+"\n\n"+labelStyle.Render("Conseil : ")+d.Advice,
	))
}

func renderExercise(w io.Writer, heading string, ex models.Exercise) {
	title := heading
	if ex.Title != "" {
		title += " · " + ex.Title
	}
	if ex.Duration != "" {
		title += " (" + ex.Duration + ")"
	}
	fmt.Fprintln(w, sectionStyle.Render(title))

	if ex.PhysiologicalGoal != "" {
		fmt.Fprintln(w, labelStyle.Render("Objectif : ")+ex.PhysiologicalGoal)
	}
	if ex.Setup != "" {
		fmt.Fprintln(w, labelStyle.Render("Organisation : ")+ex.Setup)
	}
	if ex.Type != "" || ex.Intensity != "" {
		fmt.Fprintln(w, mutedStyle.Render(strings.Trim(ex.Type+" · "+ex.Intensity, " ·")))
	}
	for i, step := range ex.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step)
	}
	if len(ex.CoachingPoints) > 0 {
		fmt.Fprintln(w, labelStyle.Render("Points clés :"))
		for _, point := range ex.CoachingPoints {
			fmt.Fprintln(w, "  • "+point)
		}
	}
	if len(ex.Variations) > 0 {
		fmt.Fprintln(w, labelStyle.Render("Variantes : ")+strings.Join(ex.Variations, ", "))
	}
}

func renderAdvice(w io.Writer, a models.PriorityAdvice) {
	fmt.Fprintln(w, titleStyle.Render("Catégorie "+a.Category))
	fmt.Fprintln(w, labelStyle.Render("Prioritaires : ")+priorityStyle.Render(strings.Join(a.Priority, ", ")))
	fmt.Fprintln(w, labelStyle.Render("Secondaires : ")+secondaryStyle.Render(strings.Join(a.Secondary, ", ")))
	fmt.Fprintln(w, labelStyle.Render("Autres : ")+mutedStyle.Render(strings.Join(a.Other, ", ")))
	fmt.Fprintln(w, labelStyle.Render("Focus suggéré : ")+a.Dominance)
}

func renderQualities(w io.Writer, defs []priority.QualityDefinition) {
	for _, d := range defs {
		fmt.Fprintln(w, labelStyle.Render(d.Label)+" "+mutedStyle.Render(d.Definition))
	}
}

func renderAttempts(w io.Writer, attempts []models.Attempt) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Aucune génération enregistrée."))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Catégorie", "Focus", "Modèle", "Statut", "Durée")
	for _, a := range attempts {
		status := a.Status
		if a.ErrorKind != "" {
			status += " (" + a.ErrorKind + ")"
		}
		t.Row(
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Category,
			a.Focus,
			a.Model,
			status,
			fmt.Sprintf("%.1fs", float64(a.DurationMS)/1000),
		)
	}
	fmt.Fprintln(w, t.String())
}
