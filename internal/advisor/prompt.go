package advisor

import (
	"fmt"
	"strings"
)

// ProfileContext carries the derived facts the model may use to personalise
// an answer. Zero values are omitted from the prompt.
type ProfileContext struct {
	DisplayName      string
	CycleDay         int
	CyclePhase       string
	DaysUntilPeriod  int
	GestationalWeeks int
	BabyName         string
	BabyAgeMonths    int
	HasBaby          bool
}

const disclaimer = "You are not a doctor. For bleeding, severe pain, fever in a newborn, breathing trouble or any emergency, tell the user to contact a clinician or emergency services right away."

var topicInstructions = map[string]string{
	TopicPregnancy: "You are a supportive guide for people who are trying to conceive or are pregnant. Explain symptoms, test timing and prenatal care in plain language.",
	TopicNewborn:   "You are a supportive guide for new parents. Answer questions about feeding, sleep, growth, vaccinations and everyday newborn care.",
	TopicCycle:     "You are a supportive guide for menstrual cycle and fertility questions. Explain cycle phases, fertile windows and irregular cycles in plain language.",
	TopicGeneral:   "You are a supportive maternal and newborn health guide.",
}

func BuildSystemInstruction(topic string, profile ProfileContext) string {
	instruction, ok := topicInstructions[topic]
	if !ok {
		instruction = topicInstructions[TopicGeneral]
	}

	var builder strings.Builder
	builder.WriteString(instruction)
	builder.WriteString(" Keep answers short and practical. ")
	builder.WriteString(disclaimer)

	facts := profileFacts(profile)
	if len(facts) > 0 {
		builder.WriteString("\n\nWhat you know about the user:\n")
		for _, fact := range facts {
			builder.WriteString("- ")
			builder.WriteString(fact)
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

func profileFacts(profile ProfileContext) []string {
	facts := make([]string, 0, 6)
	if name := strings.TrimSpace(profile.DisplayName); name != "" {
		facts = append(facts, fmt.Sprintf("Name: %s", name))
	}
	if profile.CycleDay > 0 {
		facts = append(facts, fmt.Sprintf("Cycle day %d", profile.CycleDay))
	}
	if profile.CyclePhase != "" && profile.CyclePhase != "unknown" {
		facts = append(facts, fmt.Sprintf("Current cycle phase: %s", profile.CyclePhase))
	}
	if profile.DaysUntilPeriod > 0 {
		facts = append(facts, fmt.Sprintf("Next period expected in %d days", profile.DaysUntilPeriod))
	}
	if profile.GestationalWeeks > 0 {
		facts = append(facts, fmt.Sprintf("About %d weeks pregnant", profile.GestationalWeeks))
	}
	if profile.HasBaby {
		name := strings.TrimSpace(profile.BabyName)
		if name == "" {
			name = "Baby"
		}
		facts = append(facts, fmt.Sprintf("%s is %d months old", name, profile.BabyAgeMonths))
	}
	return facts
}
