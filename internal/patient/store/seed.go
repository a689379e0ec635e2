package store

import "netra/internal/patient/models"

// SeedPatients returns the demo people shown on the records page.
func SeedPatients() []models.Patient {
	return []models.Patient{
		{ID: "p1", Name: "Amit Verma", DOB: "1985-06-12", Gender: "Male", Phone: "9876543210", Email: "amit.verma@example.com", Address: "12 MG Road, Mumbai"},
		{ID: "p2", Name: "Sana Kapoor", DOB: "1990-02-28", Gender: "Female", Phone: "9123456780", Email: "sana.kapoor@example.com", Address: "45 Park Street, Delhi"},
		{ID: "p3", Name: "Rahul Mehta", DOB: "1978-11-05", Gender: "Male", Phone: "9988776655", Email: "rahul.mehta@example.com", Address: "7 Green Avenue, Bengaluru"},
		{ID: "p4", Name: "Priya Sharma", DOB: "1992-09-17", Gender: "Female", Phone: "9012345678", Email: "priya.sharma@example.com", Address: "101 Main St, Chennai"},
		{ID: "p5", Name: "Vikram Singh", DOB: "1980-04-22", Gender: "Male", Phone: "9090909090", Email: "vikram.singh@example.com", Address: "88 Lotus Rd, Pune"},
		{ID: "p6", Name: "Ananya Rao", DOB: "1988-12-30", Gender: "Female", Phone: "9445566778", Email: "ananya.rao@example.com", Address: "56 River Lane, Hyderabad"},
		{ID: "p7", Name: "Nikhil Kapoor", DOB: "1975-07-09", Gender: "Male", Phone: "9112233445", Email: "nikhil.kapoor@example.com", Address: "22 Hilltop, Kolkata"},
		{ID: "p8", Name: "Sangeeta Iyer", DOB: "1983-03-03", Gender: "Female", Phone: "9887766554", Email: "sangeeta.iyer@example.com", Address: "9 East End, Ahmedabad"},
		{ID: "p9", Name: "Arjun Patel", DOB: "1995-01-20", Gender: "Male", Phone: "9776655443", Email: "arjun.patel@example.com", Address: "33 Seaside, Goa"},
		{ID: "p10", Name: "Meera Joshi", DOB: "1991-05-06", Gender: "Female", Phone: "9665544332", Email: "meera.joshi@example.com", Address: "14 North St, Surat"},
		{ID: "p11", Name: "Karan Malhotra", DOB: "1986-08-14", Gender: "Male", Phone: "9554433221", Email: "karan.malhotra@example.com", Address: "70 Central Ave, Lucknow"},
	}
}
