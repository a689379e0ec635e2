package store

import "netra/internal/report/models"

// SeedReports returns the demo reports shown on the past-reports dashboard.
func SeedReports() []models.Report {
	return []models.Report{
		{ID: "r1", Title: "Retina Scan - Left Eye", Patient: "Amit Verma", Doctor: "Dr. Rahul Mehta", Date: "2025-10-20", Status: models.StatusDone, Confidence: 0.92, Files: 3},
		{ID: "r2", Title: "Macula Check", Patient: "Sana Kapoor", Doctor: "Dr. Ananya Rao", Date: "2025-10-18", Status: models.StatusReview, Confidence: 0.78, Files: 2},
		{ID: "r3", Title: "OCT Analysis", Patient: "Priya Sharma", Doctor: "Dr. Vikram Singh", Date: "2025-10-15", Status: models.StatusPending, Confidence: 0, Files: 1},
		{ID: "r4", Title: "Fundus Photo", Patient: "Rahul Mehta", Doctor: "Dr. Nikhil Kapoor", Date: "2025-09-30", Status: models.StatusDone, Confidence: 0.85, Files: 4},
		{ID: "r5", Title: "Peripheral Scan", Patient: "Ananya Rao", Doctor: "Dr. Sangeeta Iyer", Date: "2025-09-20", Status: models.StatusFailed, Confidence: 0.12, Files: 1},
		{ID: "r6", Title: "Cornea Mapping", Patient: "Vikram Singh", Doctor: "Dr. Arjun Patel", Date: "2025-09-10", Status: models.StatusDone, Confidence: 0.95, Files: 5},
		{ID: "r7", Title: "Glaucoma Suspect", Patient: "Meera Joshi", Doctor: "Dr. Rahul Mehta", Date: "2025-08-30", Status: models.StatusReview, Confidence: 0.66, Files: 2},
		{ID: "r8", Title: "Vascular Analysis", Patient: "Karan Malhotra", Doctor: "Dr. Priya Sharma", Date: "2025-07-22", Status: models.StatusDone, Confidence: 0.88, Files: 3},
		{ID: "r9", Title: "Color Fundus", Patient: "Arjun Patel", Doctor: "Dr. Ananya Rao", Date: "2025-06-12", Status: models.StatusDone, Confidence: 0.81, Files: 2},
		{ID: "r10", Title: "Anterior Segment", Patient: "Sangeeta Iyer", Doctor: "Dr. Vikram Singh", Date: "2025-05-02", Status: models.StatusPending, Confidence: 0, Files: 1},
	}
}
