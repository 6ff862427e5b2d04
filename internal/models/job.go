package models

// JobListing is one row of the job-market CSV dataset. Listings are
// read-only once loaded.
type JobListing struct {
	State           string  `json:"state"`
	City            string  `json:"city"`
	Region          string  `json:"region"`
	Year            int     `json:"year"`
	JobTitle        string  `json:"job_title"`
	Openings        int     `json:"openings"`
	GrowthPercent   float64 `json:"growth_percent"`
	AverageSalary   float64 `json:"average_salary"`
	MedianSalary    float64 `json:"median_salary"`
	EmploymentType  string  `json:"employment_type"`
	Remote          bool    `json:"remote"`
	ExperienceLevel string  `json:"experience_level"`
	KeySkills       string  `json:"key_skills"`
}

// Job is a catalog entry derived from the listings sharing one title.
type Job struct {
	ID            int64   `json:"id"             bson:"id"`
	Title         string  `json:"title"          bson:"title"`
	Specialty     string  `json:"specialty"      bson:"specialty"`
	AverageSalary float64 `json:"average_salary" bson:"average_salary"`
	MedianSalary  float64 `json:"median_salary"  bson:"median_salary"`
	GrowthPercent float64 `json:"growth_percent" bson:"growth_percent"`
	Openings      int     `json:"openings"       bson:"openings"`
}

// SkillCategory splits skills into the two buckets the dashboards chart.
type SkillCategory string

const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
)

// Skill is a catalog skill token.
type Skill struct {
	ID       int64         `json:"id"       bson:"id"`
	Name     string        `json:"name"     bson:"name"`
	Category SkillCategory `json:"category" bson:"category"`
}

// JobSkill links a job to a skill with the number of listings naming it.
type JobSkill struct {
	JobID     int64 `json:"job_id"    bson:"job_id"`
	SkillID   int64 `json:"skill_id"  bson:"skill_id"`
	Frequency int   `json:"frequency" bson:"frequency"`
}

// JobSkillView is a skill as returned for a single job.
type JobSkillView struct {
	Skill
	Frequency int `json:"frequency"`
}

// SalaryRecord is the salary of one job in one state for one year.
type SalaryRecord struct {
	JobID         int64   `json:"job_id"         bson:"job_id"`
	JobTitle      string  `json:"job_title"      bson:"job_title"`
	State         string  `json:"state"          bson:"state"`
	Year          int     `json:"year"           bson:"year"`
	AverageSalary float64 `json:"average_salary" bson:"average_salary"`
	MedianSalary  float64 `json:"median_salary"  bson:"median_salary"`
}

// Catalog is the full set of derived catalog records.
type Catalog struct {
	Jobs      []Job
	Skills    []Skill
	JobSkills []JobSkill
	Salaries  []SalaryRecord
}
