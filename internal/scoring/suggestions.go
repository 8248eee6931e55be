package scoring

// Suggestion is an improvement action for a weak category.
type Suggestion struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Action   string `json:"action"`
	Timeline string `json:"timeline"`
}

var improvementActions = map[string][]Suggestion{
	"Mental Traits": {
		{Title: "Improve self-reflection", Action: "Journal daily about your thoughts and reactions", Timeline: "30 days"},
		{Title: "Enhance listening skills", Action: "Practice active listening without interrupting", Timeline: "21 days"},
	},
	"Emotional Traits": {
		{Title: "Build emotional awareness", Action: "Name your emotions when they arise", Timeline: "14 days"},
		{Title: "Express appreciation daily", Action: "Share one thing you appreciate about your partner each day", Timeline: "30 days"},
	},
	"Physical Traits": {
		{Title: "Establish a fitness routine", Action: "Exercise for 30 minutes 3 times per week", Timeline: "60 days"},
		{Title: "Enhance personal grooming", Action: "Update your grooming routine", Timeline: "14 days"},
	},
	"Financial Traits": {
		{Title: "Create a budget", Action: "Track all expenses for a month", Timeline: "30 days"},
		{Title: "Build financial transparency", Action: "Have weekly money discussions with your partner", Timeline: "60 days"},
	},
	"Family & Cultural Compatibility": {
		{Title: "Understand partner family values", Action: "Have a conversation about family traditions", Timeline: "30 days"},
		{Title: "Set healthy boundaries", Action: "Establish clear family boundaries with your partner", Timeline: "60 days"},
	},
	"Conflict Resolution Style": {
		{Title: "Practice de-escalation", Action: `Use "I" statements during disagreements`, Timeline: "30 days"},
		{Title: "Learn conflict resolution skills", Action: "Read a book on healthy conflict resolution", Timeline: "45 days"},
	},
}

// GenerateSuggestions lists the improvement actions of each weak category in
// the order given. Unknown categories contribute nothing.
func GenerateSuggestions(lowest []CategoryScore) []Suggestion {
	var out []Suggestion
	for _, cs := range lowest {
		for _, s := range improvementActions[cs.Category] {
			s.Category = cs.Category
			out = append(out, s)
		}
	}
	return out
}
