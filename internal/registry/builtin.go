package registry

import "coachflow/internal/domain"

// builtinFrameworks returns the coaching frameworks shipped with coachflow.
// Steps and fields are configuration data; the engine never special-cases a
// framework or step by name.
func builtinFrameworks() []domain.Framework {
	return []domain.Framework{growFramework(), compassFramework(), careerFramework()}
}

func growFramework() domain.Framework {
	return domain.Framework{
		ID:          "GROW",
		Name:        "GROW",
		Description: "Goal, Reality, Options, Will: the classic four-stage coaching arc with a closing review.",
		SkipPolicy:  domain.DefaultSkipPolicy(),
		Steps: []domain.Step{
			{
				Name:    "goal",
				Ordinal: 0,
				Intro:   "Clarify what the coachee wants to achieve in this session.",
				Fields: []domain.FieldSpec{
					{Name: "desired_outcome", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "What would you like to achieve?"},
					{Name: "motivation", Shape: domain.ShapeScalarString,
						Question: "Why does this matter to you right now?"},
					{Name: "success_criteria", Shape: domain.ShapeStringArray,
						Question: "How will you know you have succeeded?"},
				},
			},
			{
				Name:    "reality",
				Ordinal: 1,
				Intro:   "Build an honest picture of the current situation.",
				Fields: []domain.FieldSpec{
					{Name: "current_state", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "What is the situation right now?"},
					{Name: "constraints", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What constraints are you working within?"},
					{Name: "resources", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What resources or support do you already have?"},
					{Name: "risks", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What risks do you see if nothing changes?"},
				},
			},
			{
				Name:    "options",
				Ordinal: 2,
				Intro:   "Generate and weigh possible ways forward.",
				Fields: []domain.FieldSpec{
					{Name: "options", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What options could you pursue?"},
					{Name: "preferred_option", Shape: domain.ShapeScalarString,
						Question: "Which option appeals to you most?"},
					{Name: "tradeoffs", Shape: domain.ShapeStringArray,
						Question: "What are the trade-offs between these options?"},
				},
			},
			{
				Name:    "will",
				Ordinal: 3,
				Intro:   "Commit to concrete next actions.",
				Fields: []domain.FieldSpec{
					{Name: "next_actions", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What will you do first, and by when?"},
					{Name: "commitment_level", Shape: domain.ShapeScalarNumber, Mandatory: true,
						Question: "On a scale of 1-10, how committed are you?",
						Hint:     "a number from 1 to 10"},
					{Name: "support_needed", Shape: domain.ShapeStringArray,
						Question: "What support do you need to follow through?"},
				},
			},
			{
				Name:    "review",
				Ordinal: 4,
				Intro:   "Close the session and capture the takeaway.",
				Fields: []domain.FieldSpec{
					{Name: "key_insight", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "What is the most important thing you are taking away?"},
					{Name: "satisfaction_score", Shape: domain.ShapeScalarNumber, Mandatory: true,
						Question: "How useful was this session, from 1 to 10?",
						Hint:     "a number from 1 to 10"},
				},
			},
		},
	}
}

func compassFramework() domain.Framework {
	return domain.Framework{
		ID:          "COMPASS",
		Name:        "COMPASS",
		Description: "Values-first orientation: context, purpose, strengths, alignment, steps.",
		SkipPolicy:  domain.DefaultSkipPolicy(),
		Steps: []domain.Step{
			{
				Name:    "context",
				Ordinal: 0,
				Intro:   "Understand the situation that brought the coachee here.",
				Fields: []domain.FieldSpec{
					{Name: "situation", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "What is going on for you at the moment?"},
					{Name: "tensions", Shape: domain.ShapeStringArray,
						Question: "Where do you feel the most tension?"},
				},
			},
			{
				Name:    "purpose",
				Ordinal: 1,
				Intro:   "Surface what genuinely matters to the coachee.",
				Fields: []domain.FieldSpec{
					{Name: "core_values", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What values feel most important to you?"},
					{Name: "purpose_statement", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "If you had to state your purpose in one sentence, what would it be?"},
				},
			},
			{
				Name:    "strengths",
				Ordinal: 2,
				Intro:   "Inventory the strengths available to act with.",
				Fields: []domain.FieldSpec{
					{Name: "strengths", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What are you naturally good at?"},
					{Name: "energizers", Shape: domain.ShapeStringArray,
						Question: "What kinds of work give you energy?"},
				},
			},
			{
				Name:    "alignment",
				Ordinal: 3,
				Intro:   "Compare the current path against purpose and strengths.",
				Fields: []domain.FieldSpec{
					{Name: "aligned_areas", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "Where does your current path already fit your purpose?"},
					{Name: "misaligned_areas", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "Where does it pull against your values?"},
				},
			},
			{
				Name:    "steps",
				Ordinal: 4,
				Intro:   "Turn the orientation into movement.",
				Fields: []domain.FieldSpec{
					{Name: "first_moves", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What small moves would bring you closer to alignment?"},
					{Name: "checkpoint", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "When and how will you check in on progress?"},
				},
			},
		},
	}
}

func careerFramework() domain.Framework {
	return domain.Framework{
		ID:          "CAREER",
		Name:        "CAREER",
		Description: "Career development arc: where you are, where you want to be, and the gap between.",
		SkipPolicy:  domain.DefaultSkipPolicy(),
		Steps: []domain.Step{
			{
				Name:    "current_role",
				Ordinal: 0,
				Intro:   "Map the current role and how it feels.",
				Fields: []domain.FieldSpec{
					{Name: "role_summary", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "How would you describe your current role?"},
					{Name: "satisfactions", Shape: domain.ShapeStringArray,
						Question: "What parts of the role satisfy you?"},
					{Name: "frustrations", Shape: domain.ShapeStringArray,
						Question: "What parts frustrate you?"},
				},
			},
			{
				Name:    "aspirations",
				Ordinal: 1,
				Intro:   "Describe the desired destination.",
				Fields: []domain.FieldSpec{
					{Name: "target_role", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "What role or kind of work are you aiming for?"},
					{Name: "timeline", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "Over what timeframe do you want this to happen?"},
				},
			},
			{
				Name:    "gaps",
				Ordinal: 2,
				Intro:   "Identify what stands between here and there.",
				Fields: []domain.FieldSpec{
					{Name: "skill_gaps", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What skills or experience are you missing for that role?"},
					{Name: "blockers", Shape: domain.ShapeStringArray,
						Question: "What external blockers are in the way?"},
				},
			},
			{
				Name:    "plan",
				Ordinal: 3,
				Intro:   "Commit to development actions.",
				Fields: []domain.FieldSpec{
					{Name: "development_actions", Shape: domain.ShapeStringArray, Mandatory: true,
						Question: "What concrete actions will close those gaps?"},
					{Name: "accountability", Shape: domain.ShapeScalarString, Mandatory: true,
						Question: "Who or what will keep you accountable?"},
				},
			},
		},
	}
}
