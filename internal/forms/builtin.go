package forms

func intPtr(v int) *int { return &v }

// EventTitleField is the companion field used to compose uploaded certificate
// names. Every built-in form carries it.
const EventTitleField = "event_title"

// Default returns the registry of forms offered by the portal. Adding a new
// submission type only requires a new entry here.
func Default() (*Registry, error) {
	return NewRegistry(bloodDonor, participation)
}

var bloodDonor = Definition{
	Key:         "blood_donor",
	Title:       "Blood Donor",
	Description: "Submission of blood donation certificates",
	Fields: []Field{
		{
			Name:        "event_title",
			Label:       "Event Title",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g., Blood Donation Camp 2024",
			HelpText:    "Name of the blood donation event or campaign",
			Validation:  Validation{MinLength: 3, MaxLength: 50},
		},
		{
			Name:       "from_date",
			Label:      "From Date",
			Type:       FieldDate,
			Required:   true,
			HelpText:   "Start date of the donation event",
			Validation: Validation{MaxDateToday: true},
		},
		{
			Name:       "to_date",
			Label:      "To Date",
			Type:       FieldDate,
			Required:   true,
			HelpText:   "End date of the donation event",
			Validation: Validation{MaxDateToday: true, AfterField: "from_date"},
		},
		{
			Name:        "organizer",
			Label:       "Organizer",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g. SKIT",
			HelpText:    "Organization that conducted the blood donation drive",
			Validation:  Validation{MinLength: 3, MaxLength: 150},
		},
		{
			Name:        "venue",
			Label:       "Venue",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g. Civil block, SKIT, Jaipur",
			HelpText:    "Location where blood donation took place",
			Validation:  Validation{MinLength: 5, MaxLength: 200},
		},
		{
			Name:     "certificate",
			Label:    "Certificate / Proof",
			Type:     FieldFile,
			Required: true,
			HelpText: "Upload your blood donor certificate or equivalent proof",
			Validation: Validation{
				AcceptedTypes: []string{".pdf", ".jpg", ".jpeg", ".png"},
				MaxSizeBytes:  5 * 1024 * 1024,
			},
		},
	},
}

var participation = Definition{
	Key:         "participation",
	Title:       "Participation in Competition/Contest/Activity",
	Description: "Submission of participation certificates",
	Fields: []Field{
		{
			Name:        "event_title",
			Label:       "Name of the Competition/Event/Activity",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g., Game of Quizzes",
			HelpText:    "Exactly as mentioned in the certificate",
			Validation:  Validation{MinLength: 3, MaxLength: 50},
		},
		{
			Name:     "event_nature",
			Label:    "Nature of the Event",
			Type:     FieldText,
			Required: true,
			HelpText: "e.g. Dance Competition, Quiz Competition, Tree Plantation Event",
		},
		{
			Name:     "participation_type",
			Label:    "Team/Individual",
			Type:     FieldRadio,
			Required: true,
			Options: []Option{
				{Value: "Team", Label: "Team"},
				{Value: "Individual", Label: "Individual"},
			},
		},
		{
			Name:     "event_level",
			Label:    "Event Level",
			Type:     FieldRadio,
			Required: true,
			HelpText: "College: within SKIT only. University: RTU affiliated colleges. State: colleges across Rajasthan. National: colleges across India. International: colleges outside India.",
			Options: []Option{
				{Value: "College", Label: "College"},
				{Value: "University", Label: "University"},
				{Value: "State", Label: "State"},
				{Value: "National", Label: "National"},
				{Value: "International", Label: "International"},
			},
		},
		{
			Name:     "event_type",
			Label:    "Event Type",
			Type:     FieldRadio,
			Required: true,
			Options: []Option{
				{Value: "Intra College", Label: "Intra College"},
				{Value: "Inter College", Label: "Inter College"},
			},
		},
		{
			Name:     "event_category",
			Label:    "Event Category",
			Type:     FieldRadio,
			Required: true,
			Options: []Option{
				{Value: "Cultural", Label: "Cultural"},
				{Value: "Technical", Label: "Technical"},
				{Value: "Sports", Label: "Sports"},
				{Value: "Non-Technical", Label: "Non-Technical"},
			},
		},
		{
			Name:     "event_mode",
			Label:    "Mode of Event",
			Type:     FieldRadio,
			Required: true,
			Options: []Option{
				{Value: "Online", Label: "Online"},
				{Value: "Offline", Label: "Offline"},
			},
		},
		{
			Name:        "event_duration",
			Label:       "Event Duration (in days)",
			Type:        FieldNumber,
			Required:    true,
			Placeholder: "Your answer",
			Validation:  Validation{Min: intPtr(1), Max: intPtr(365)},
		},
		{
			Name:       "from_date",
			Label:      "From Date",
			Type:       FieldDate,
			Required:   true,
			HelpText:   "Start date of the event",
			Validation: Validation{MaxDateToday: true},
		},
		{
			Name:       "to_date",
			Label:      "To Date",
			Type:       FieldDate,
			Required:   true,
			HelpText:   "End date of the event",
			Validation: Validation{MaxDateToday: true, AfterField: "from_date"},
		},
		{
			Name:        "organizer",
			Label:       "Organizer",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g. SKIT, Jaipur",
			HelpText:    "Organization that conducted the event",
			Validation:  Validation{MinLength: 3, MaxLength: 150},
		},
		{
			Name:        "venue",
			Label:       "Venue",
			Type:        FieldText,
			Required:    true,
			Placeholder: "e.g. Civil block, SKIT, Jaipur",
			HelpText:    "Location where the event took place",
			Validation:  Validation{MinLength: 5, MaxLength: 200},
		},
		{
			Name:     "certificate",
			Label:    "Certificate/Proof",
			Type:     FieldFile,
			Required: true,
			HelpText: "Upload your participation certificate or equivalent proof",
			Validation: Validation{
				AcceptedTypes: []string{".pdf"},
				MaxSizeBytes:  5 * 1024 * 1024,
			},
		},
	},
}
