package generator

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/claude/phenix/internal/models"
)

const systemInstruction = `Tu es un expert en préparation physique de football (Diplôme FFF).

RÈGLES D'OR :
1. Si U6-U13 : Ludique, gamification, ballon omniprésent.
2. Si U14+ : Plus athlétique, rigueur, répétitions.
3. Temps de récupération adaptés à la physiologie.

Réponds uniquement avec un objet JSON conforme au schéma demandé, sans texte autour.`

// Request is what the generator hands to a Model.
type Request struct {
	SystemInstruction string
	UserMessage       string
	Schema            *genai.Schema
}

// buildRequest renders the prompt for p.
func buildRequest(p models.SessionParams) Request {
	var sb strings.Builder

	sb.WriteString("CONTEXTE :\n")
	fmt.Fprintf(&sb, "- Catégorie : %s\n", p.Category)
	fmt.Fprintf(&sb, "- Genre : %s\n", p.Gender)
	fmt.Fprintf(&sb, "- Niveau : %s\n", p.Level)
	fmt.Fprintf(&sb, "- Effectif : %d joueurs\n", p.PlayerCount)
	fmt.Fprintf(&sb, "- Type de séance : %s\n", p.SessionType())
	fmt.Fprintf(&sb, "- Objectif principal : %q\n", p.FocusText())
	if p.CycleMoment != "" {
		fmt.Fprintf(&sb, "- Moment du cycle : %s\n", p.CycleMoment)
	}
	if p.SessionsPerWeek > 0 {
		fmt.Fprintf(&sb, "- Séance %d sur %d cette semaine\n", p.SessionNumber, p.SessionsPerWeek)
	}
	if p.References != "" {
		fmt.Fprintf(&sb, "- Références : %s\n", p.References)
	}

	sb.WriteString("\nMISSION :\n")
	sb.WriteString("Génère une séance complète et structurée : un échauffement (warmup), ")
	sb.WriteString("deux ateliers principaux (mainPart), un retour au calme (conclusion) ")
	sb.WriteString("et un diagnostic de l'expert (diagnosis).\n")
	sb.WriteString("Chaque atelier détaille les étapes (steps), la mise en place (setup), ")
	sb.WriteString("l'objectif physiologique (physiologicalGoal) et les points de coaching (coachingPoints).\n")

	return Request{
		SystemInstruction: systemInstruction,
		UserMessage:       sb.String(),
		Schema:            sessionSchema(),
	}
}
