package database

import (
	"gorm.io/gorm"

	"github.com/mohamedamineameur/comptia/models"
)

type seedTopic struct {
	code   string
	nameEn string
	nameFr string
}

type seedSubObjective struct {
	code    string
	titleEn string
	titleFr string
	topics  []seedTopic
}

type seedObjective struct {
	code          string
	titleEn       string
	titleFr       string
	subObjectives []seedSubObjective
}

type seedDomain struct {
	code       string
	nameEn     string
	nameFr     string
	objectives []seedObjective
}

// SeedBaseline loads the baseline Security+ SY0-701 catalog. Idempotent:
// every node is looked up by code before being created.
func SeedBaseline(db *gorm.DB) error {
	exam := models.Exam{Code: "SY0-701", Title: "CompTIA Security+"}
	if err := db.Where(models.Exam{Code: exam.Code}).FirstOrCreate(&exam).Error; err != nil {
		return err
	}

	domains := []seedDomain{
		{
			code:   "1.0",
			nameEn: "General Security Concepts",
			nameFr: "Concepts generaux de securite",
			objectives: []seedObjective{
				{
					code:    "1.1",
					titleEn: "Compare and contrast various types of security controls",
					titleFr: "Comparer les differents types de controles de securite",
					subObjectives: []seedSubObjective{
						{
							code:    "1.1.1",
							titleEn: "Categories of security controls",
							titleFr: "Categories de controles de securite",
							topics: []seedTopic{
								{code: "1.1.1-T1", nameEn: "Technical controls", nameFr: "Controles techniques"},
								{code: "1.1.1-T2", nameEn: "Managerial controls", nameFr: "Controles manageriaux"},
								{code: "1.1.1-T3", nameEn: "Operational controls", nameFr: "Controles operationnels"},
								{code: "1.1.1-T4", nameEn: "Physical controls", nameFr: "Controles physiques"},
							},
						},
						{
							code:    "1.1.2",
							titleEn: "Control types",
							titleFr: "Types de controles",
							topics: []seedTopic{
								{code: "1.1.2-T1", nameEn: "Preventive", nameFr: "Preventif"},
								{code: "1.1.2-T2", nameEn: "Detective", nameFr: "Detectif"},
								{code: "1.1.2-T3", nameEn: "Corrective", nameFr: "Correctif"},
								{code: "1.1.2-T4", nameEn: "Compensating", nameFr: "Compensatoire"},
							},
						},
					},
				},
				{
					code:    "1.2",
					titleEn: "Summarize fundamental security concepts",
					titleFr: "Resumer les concepts fondamentaux de securite",
					subObjectives: []seedSubObjective{
						{
							code:    "1.2.1",
							titleEn: "CIA triad and non-repudiation",
							titleFr: "Triade CIA et non-repudiation",
							topics: []seedTopic{
								{code: "1.2.1-T1", nameEn: "Confidentiality", nameFr: "Confidentialite"},
								{code: "1.2.1-T2", nameEn: "Integrity", nameFr: "Integrite"},
								{code: "1.2.1-T3", nameEn: "Availability", nameFr: "Disponibilite"},
							},
						},
						{
							code:    "1.2.2",
							titleEn: "Zero trust",
							titleFr: "Zero trust",
							topics: []seedTopic{
								{code: "1.2.2-T1", nameEn: "Control plane", nameFr: "Plan de controle"},
								{code: "1.2.2-T2", nameEn: "Data plane", nameFr: "Plan de donnees"},
							},
						},
					},
				},
			},
		},
		{
			code:   "2.0",
			nameEn: "Threats, Vulnerabilities, and Mitigations",
			nameFr: "Menaces, vulnerabilites et attenuations",
			objectives: []seedObjective{
				{
					code:    "2.1",
					titleEn: "Compare and contrast common threat actors and motivations",
					titleFr: "Comparer les acteurs de menace courants et leurs motivations",
					subObjectives: []seedSubObjective{
						{
							code:    "2.1.1",
							titleEn: "Threat actors",
							titleFr: "Acteurs de menace",
							topics: []seedTopic{
								{code: "2.1.1-T1", nameEn: "Nation-state", nameFr: "Etat-nation"},
								{code: "2.1.1-T2", nameEn: "Insider threat", nameFr: "Menace interne"},
								{code: "2.1.1-T3", nameEn: "Organized crime", nameFr: "Crime organise"},
							},
						},
					},
				},
			},
		},
	}

	for _, d := range domains {
		domain := models.Domain{ExamID: exam.ID, Code: d.code, NameEn: d.nameEn, NameFr: d.nameFr}
		if err := db.Where(models.Domain{Code: d.code}).FirstOrCreate(&domain).Error; err != nil {
			return err
		}
		for _, o := range d.objectives {
			objective := models.Objective{DomainID: domain.ID, Code: o.code, TitleEn: o.titleEn, TitleFr: o.titleFr}
			if err := db.Where(models.Objective{Code: o.code}).FirstOrCreate(&objective).Error; err != nil {
				return err
			}
			for _, s := range o.subObjectives {
				subObjective := models.SubObjective{ObjectiveID: objective.ID, Code: s.code, TitleEn: s.titleEn, TitleFr: s.titleFr}
				if err := db.Where(models.SubObjective{Code: s.code}).FirstOrCreate(&subObjective).Error; err != nil {
					return err
				}
				for _, t := range s.topics {
					topic := models.Topic{SubObjectiveID: subObjective.ID, Code: t.code, NameEn: t.nameEn, NameFr: t.nameFr}
					if err := db.Where(models.Topic{Code: t.code}).FirstOrCreate(&topic).Error; err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}
