package config

import (
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
)

// Дефолтный контент обучения. Накладывается на конфигурацию из БД только для
// ролей, у которых контент отсутствует — сохранённые данные не перетираются.

var defaultOnboarding = map[string][]models.OnboardingStep{
	string(roles.Support): {
		{
			Text:      "Welcome to Support Staff! 🛠️",
			Media:     "https://cdn.example.com/training/support-welcome.png",
			MediaType: models.MediaImage,
		},
		{Text: "Your main role is to help users with their questions and issues."},
		{
			Text:      "Always be patient and friendly when assisting users.",
			Media:     "https://cdn.example.com/training/support-etiquette.png",
			MediaType: models.MediaImage,
		},
		{
			Text:      "If you cannot solve an issue, escalate it to an Administrator.",
			Media:     "https://cdn.example.com/training/escalation-process.mp4",
			MediaType: models.MediaVideo,
		},
		{Text: "Check the resources channel for helpful guides."},
	},
	string(roles.Admin): {
		{
			Text:      "Welcome to the Administrator team! ⚡",
			Media:     "https://cdn.example.com/training/admin-welcome.png",
			MediaType: models.MediaImage,
		},
		{Text: "You oversee Support Staff and manage community operations."},
		{
			Text:      "Handle escalated issues from Support Staff.",
			Media:     "https://cdn.example.com/training/admin-escalation.png",
			MediaType: models.MediaImage,
		},
		{
			Text:      "Manage user roles and permissions.",
			Media:     "https://cdn.example.com/training/role-management.mp4",
			MediaType: models.MediaVideo,
		},
		{Text: "Review admin resources before your first shift."},
	},
	string(roles.SLT): {
		{
			Text:      "Welcome to the Senior Leadership team! 👑",
			Media:     "https://cdn.example.com/training/slt-welcome.png",
			MediaType: models.MediaImage,
		},
		{Text: "Set the vision and direction for the community."},
		{
			Text:      "Make final decisions on major issues.",
			Media:     "https://cdn.example.com/training/leadership-decision.png",
			MediaType: models.MediaImage,
		},
		{Text: "Support Administrators and Support Staff."},
		{Text: "Review leadership resources regularly."},
	},
}

var defaultQuizzes = map[string][]models.QuizQuestion{
	string(roles.Support): {
		{Question: "What should you do if you cannot solve a user issue?", Answer: "escalate"},
		{Question: "Where do you assist users?", Answer: "tickets"},
		{Question: "Should you ever be rude to users?", Answer: "no"},
		{Question: "Who do you ask for help if unsure?", Answer: "admin"},
	},
	string(roles.Admin): {
		{Question: "Who do you oversee?", Answer: "support staff"},
		{Question: "What do you manage besides users?", Answer: "staff"},
		{Question: "Where do you find the admin guide?", Answer: "resources"},
		{Question: "Who do you escalate major issues to?", Answer: "senior leadership"},
	},
	string(roles.SLT): {
		{Question: "Who sets the vision for the community?", Answer: "senior leadership"},
		{Question: "Who makes final decisions?", Answer: "senior leadership"},
		{Question: "Where are community policies found?", Answer: "resources"},
		{Question: "Who supports Administrators and Support Staff?", Answer: "senior leadership"},
	},
}

var defaultResources = map[string][]string{
	string(roles.Support): {
		"[Support Handbook](https://example.com/support-handbook)",
		"[Support FAQ](https://example.com/support-faq)",
	},
	string(roles.Admin): {
		"[Admin Guide](https://example.com/admin-guide)",
		"[Moderation Tools](https://example.com/mod-tools)",
	},
	string(roles.SLT): {
		"[Leadership Resources](https://example.com/leadership)",
		"[Community Policy](https://example.com/policy)",
	},
}

// Сценарии есть не у всех ролей: у Senior Leadership их пока нет.
var defaultScenarios = map[string][]models.Scenario{
	string(roles.Support): {
		{
			Key:      "escalation_handling",
			Question: "A user is being very aggressive. What's your first step?",
			Options: []models.ScenarioOption{
				{
					Key:      "stay_calm",
					Label:    "Stay calm and professional",
					FollowUp: "Correct! Always maintain professionalism. Next: offer to take this to DMs or escalate to an Administrator.",
				},
				{
					Key:      "get_angry",
					Label:    "Match their energy",
					FollowUp: "Incorrect. Always stay professional. Let's try again: stay calm and offer to help.",
				},
			},
		},
		{
			Key:      "technical_issue",
			Question: "A user reports a technical problem. What do you ask first?",
			Options: []models.ScenarioOption{
				{
					Key:      "gather_info",
					Label:    "Ask for specific details about the problem",
					FollowUp: "Perfect! Always gather: what happened, when, what they were doing, any error messages.",
				},
				{
					Key:      "immediate_solution",
					Label:    "Give them the first solution that comes to mind",
					FollowUp: "Incorrect. Always understand the problem first. Ask for details before suggesting solutions.",
				},
			},
		},
	},
	string(roles.Admin): {
		{
			Key:      "conflict_resolution",
			Question: "Two users are arguing in a channel. What's your first action?",
			Options: []models.ScenarioOption{
				{
					Key:      "separate_users",
					Label:    "Separate them and take to DMs",
					FollowUp: "Excellent! Separate first, then investigate. If they refuse, consider a temporary mute or escalation.",
				},
				{
					Key:      "immediate_ban",
					Label:    "Ban both users immediately",
					FollowUp: "Incorrect. Always try de-escalation first. Separate users, then investigate the situation.",
				},
			},
		},
		{
			Key:      "staff_management",
			Question: "A Support Staff member is consistently late to their shifts. What do you do?",
			Options: []models.ScenarioOption{
				{
					Key:      "private_talk",
					Label:    "Have a private conversation with them",
					FollowUp: "Correct! Address issues privately first. Discuss expectations, offer support, set clear goals.",
				},
				{
					Key:      "public_calling",
					Label:    "Call them out publicly in the staff channel",
					FollowUp: "Incorrect. Never address performance issues publicly. Always handle them privately and professionally.",
				},
			},
		},
	},
}

// ApplyDefaults дополняет конфигурацию дефолтным контентом.
// Заполняются только отсутствующие роли, существующие данные не трогаются.
func ApplyDefaults(cfg *models.Config) {
	if cfg.Onboarding == nil {
		cfg.Onboarding = make(map[string][]models.OnboardingStep)
	}
	if cfg.Quizzes == nil {
		cfg.Quizzes = make(map[string][]models.QuizQuestion)
	}
	if cfg.Resources == nil {
		cfg.Resources = make(map[string][]string)
	}
	if cfg.Scenarios == nil {
		cfg.Scenarios = make(map[string][]models.Scenario)
	}
	if cfg.Vacancies.Positions == nil {
		cfg.Vacancies.Positions = make(map[string]models.Position)
	}
	if cfg.Vacancies.Applications == nil {
		cfg.Vacancies.Applications = make(map[string][]models.Application)
	}

	for role, steps := range defaultOnboarding {
		if cfg.Onboarding[role] == nil {
			cfg.Onboarding[role] = append([]models.OnboardingStep(nil), steps...)
		}
	}
	for role, questions := range defaultQuizzes {
		if cfg.Quizzes[role] == nil {
			cfg.Quizzes[role] = append([]models.QuizQuestion(nil), questions...)
		}
	}
	for role, links := range defaultResources {
		if cfg.Resources[role] == nil {
			cfg.Resources[role] = append([]string(nil), links...)
		}
	}
	for role, scenarios := range defaultScenarios {
		if cfg.Scenarios[role] == nil {
			cfg.Scenarios[role] = append([]models.Scenario(nil), scenarios...)
		}
	}
}
