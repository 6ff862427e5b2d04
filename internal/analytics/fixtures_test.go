package analytics

import "github.com/ayush/hi-jobs-dashboard/backend/internal/models"

func sampleListings() []models.JobListing {
	return []models.JobListing{
		{
			State: "MA", City: "Boston", Region: "Northeast", Year: 2023,
			JobTitle: "Data Scientist", Openings: 10, GrowthPercent: 10,
			AverageSalary: 100000, MedianSalary: 95000,
			EmploymentType: "Full-time", Remote: true, ExperienceLevel: "Senior",
			KeySkills: "Python; SQL; Communication",
		},
		{
			State: "Texas", City: "Austin", Region: "Southwest", Year: 2024,
			JobTitle: "Data Scientist", Openings: 5, GrowthPercent: 12,
			AverageSalary: 120000, MedianSalary: 115000,
			EmploymentType: "Full-time", Remote: false, ExperienceLevel: "Mid",
			KeySkills: "Python, Machine Learning, Leadership",
		},
		{
			State: "IL", City: "Chicago", Region: "Midwest", Year: 2024,
			JobTitle: "Nurse Informaticist", Openings: 8, GrowthPercent: 6,
			AverageSalary: 90000, MedianSalary: 88000,
			EmploymentType: "Part-time", Remote: false, ExperienceLevel: "Mid",
			KeySkills: "Epic | Communication | SQL",
		},
		{
			State: "WA", City: "Seattle", Region: "West", Year: 2022,
			JobTitle: "EHR Analyst", Openings: 3, GrowthPercent: 4,
			AverageSalary: 80000, MedianSalary: 78000,
			EmploymentType: "Contract", Remote: true, ExperienceLevel: "Entry",
			KeySkills: "Epic; HL7; Teamwork",
		},
	}
}

func titles(ls []models.JobListing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.JobTitle + "@" + l.City
	}
	return out
}
