package catalog

import "github.com/meridianpress/leadscout/backend/internal/models"

func seedBooks() []models.Book {
	return []models.Book{
		{
			ID:          "bk-001",
			Title:       "Foundations of Machine Intelligence",
			Author:      "Elena Vasquez",
			Subject:     "Artificial Intelligence",
			Description: "A graduate-level treatment of learning theory, neural architectures, and the mathematics behind modern AI systems.",
		},
		{
			ID:          "bk-002",
			Title:       "Quantum Computation in Practice",
			Author:      "Hiroshi Tanaka",
			Subject:     "Quantum Computing",
			Description: "From qubit physics to error correction, with worked examples on current superconducting hardware.",
		},
		{
			ID:          "bk-003",
			Title:       "The Genomic Century",
			Author:      "Priya Raman",
			Subject:     "Genomics",
			Description: "Sequencing technologies, population genomics, and the clinical translation of genomic medicine.",
		},
		{
			ID:          "bk-004",
			Title:       "Advanced Materials for Energy Storage",
			Author:      "Klaus Brenner",
			Subject:     "Materials Science",
			Description: "Electrode chemistry, solid-state electrolytes, and manufacturing pathways for next-generation batteries.",
		},
		{
			ID:          "bk-005",
			Title:       "Climate Systems Modeling",
			Author:      "Ingrid Solberg",
			Subject:     "Climate Science",
			Description: "Coupled ocean-atmosphere models, uncertainty quantification, and regional downscaling methods.",
		},
		{
			ID:          "bk-006",
			Title:       "Computational Neuroscience: Circuits to Cognition",
			Author:      "Marcus Webb",
			Subject:     "Neuroscience",
			Description: "Spiking network models, neural coding, and computational accounts of perception and memory.",
		},
		{
			ID:          "bk-007",
			Title:       "Autonomous Robotics: Perception and Control",
			Author:      "Sofia Marchetti",
			Subject:     "Robotics",
			Description: "Sensor fusion, SLAM, motion planning, and learning-based control for field robots.",
		},
		{
			ID:          "bk-008",
			Title:       "Data Ethics and Algorithmic Accountability",
			Author:      "Amara Okafor",
			Subject:     "Data Ethics",
			Description: "Fairness, transparency, and governance frameworks for data-driven decision systems.",
		},
		{
			ID:          "bk-009",
			Title:       "Synthetic Biology: Design and Application",
			Author:      "Chen Liu",
			Subject:     "Synthetic Biology",
			Description: "Genetic circuit design, metabolic engineering, and biomanufacturing case studies.",
		},
		{
			ID:          "bk-010",
			Title:       "Statistical Methods for Public Health",
			Author:      "Joan Whitfield",
			Subject:     "Public Health",
			Description: "Epidemiological study design, survival analysis, and causal inference for health researchers.",
		},
	}
}

func seedCustomers() []models.Customer {
	return []models.Customer{
		{
			ID:        "cust-101",
			Name:      "Aldersgate University Library",
			Type:      models.CustomerTypeUniversity,
			Interests: []string{"Artificial Intelligence", "Robotics", "Data Ethics"},
			PurchasedBookIDs: []string{
				"bk-008",
			},
		},
		{
			ID:        "cust-102",
			Name:      "Helix Institute for Genomic Research",
			Type:      models.CustomerTypeResearchInstitute,
			Interests: []string{"Genomics", "Synthetic Biology", "Public Health"},
			PurchasedBookIDs: []string{
				"bk-003",
			},
		},
		{
			ID:        "cust-103",
			Name:      "Northfield Energy R&D Center",
			Type:      models.CustomerTypeCorporateRD,
			Interests: []string{"Materials Science", "Climate Science", "Quantum Computing"},
			PurchasedBookIDs: []string{
				"bk-004", "bk-005",
			},
		},
		{
			ID:        "cust-104",
			Name:      "Harborview Public Library System",
			Type:      models.CustomerTypePublicLibrary,
			Interests: []string{"Artificial Intelligence", "Data Ethics", "Public Health"},
			PurchasedBookIDs: []string{},
		},
		{
			ID:        "cust-105",
			Name:      "Meridian Polytechnic Institute",
			Type:      models.CustomerTypeUniversity,
			Interests: []string{"Quantum Computing", "Artificial Intelligence", "Neuroscience"},
			PurchasedBookIDs: []string{
				"bk-001",
			},
		},
		{
			ID:        "cust-106",
			Name:      "BioForge Therapeutics Research Division",
			Type:      models.CustomerTypeCorporateRD,
			Interests: []string{"Synthetic Biology", "Genomics", "Neuroscience"},
			PurchasedBookIDs: []string{
				"bk-009",
			},
		},
	}
}

// seedInitialActiveLead is a customer the sales team already converted before
// this session; it starts in the actively-managed list and is the initial
// selection.
func seedInitialActiveLead() models.Lead {
	return models.Lead{
		Customer: models.Customer{
			ID:        "cust-001",
			Name:      "Westbrook College of Engineering",
			Type:      models.CustomerTypeUniversity,
			Interests: []string{"Robotics", "Materials Science"},
			PurchasedBookIDs: []string{
				"bk-007",
			},
		},
		PriorityScore:      82,
		Justification:      "Strong robotics program with no coverage of energy storage materials despite an active battery lab.",
		RecommendedBookIDs: []string{"bk-004"},
		PotentialRevenue:   4200,
	}
}
