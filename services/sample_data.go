package services

import (
	"github.com/yeremiapane/facilities-app/models"
	"github.com/yeremiapane/facilities-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSampleData populates venues and workers on a fresh database so the
// assignment flow is usable immediately. Runs only when the tables are empty.
func SeedSampleData(db *gorm.DB) {
	seedVenues(db)
	seedWorkers(db)
}

func seedVenues(db *gorm.DB) {
	var count int64
	db.Model(&models.Venue{}).Count(&count)
	if count > 0 {
		return
	}

	intp := func(v int) *int { return &v }

	venues := []models.Venue{
		{Name: "Computer Science Lab A", Location: "Ground Floor, CS Block", Type: models.VenueLab,
			Capacity: intp(30), FloorNumber: intp(0), Building: "CS Block",
			Description: "Computer laboratory for programming and development courses."},
		{Name: "Main Auditorium", Location: "Central Campus", Type: models.VenueHall,
			Capacity: intp(500), FloorNumber: intp(1), Building: "Main Building",
			Description: "Large auditorium for events, conferences and presentations."},
		{Name: "Classroom 101", Location: "First Floor, Academic Block", Type: models.VenueClassroom,
			Capacity: intp(40), FloorNumber: intp(1), Building: "Academic Block",
			Description: "Standard classroom with projector and whiteboard."},
		{Name: "Central Library", Location: "Library Building", Type: models.VenueLibrary,
			Capacity: intp(200), FloorNumber: intp(0), Building: "Library Building",
			Description: "Multi-floor library with books, journals and digital resources."},
		{Name: "Dean's Office", Location: "Second Floor, Administration Block", Type: models.VenueOffice,
			Capacity: intp(10), FloorNumber: intp(2), Building: "Administration Block",
			Description: "Administrative office with meeting room facilities."},
		{Name: "Boys Hostel A", Location: "Hostel Complex", Type: models.VenueHostel,
			Capacity: intp(100), FloorNumber: intp(0), Building: "Hostel Block A",
			Description: "Student accommodation with 24/7 security."},
	}

	if err := db.Create(&venues).Error; err != nil {
		utils.ErrorLogger.Printf("Error seeding venues: %v", err)
		return
	}
	utils.InfoLogger.Printf("Seeded %d sample venues", len(venues))
}

func seedWorkers(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleWorker).Count(&count)
	if count > 0 {
		return
	}

	workers := []struct {
		name  string
		email string
		wtype string
	}{
		{"John Electrician", "john.electrician@campus.edu", models.WorkerElectrician},
		{"Mike Plumber", "mike.plumber@campus.edu", models.WorkerPlumber},
		{"David Carpenter", "david.carpenter@campus.edu", models.WorkerCarpenter},
		{"Alex Network", "alex.network@campus.edu", models.WorkerNetwork},
		{"Sarah General", "sarah.general@campus.edu", models.WorkerGeneral},
		{"Robert Electrician", "robert.electrician@campus.edu", models.WorkerElectrician},
		{"James Plumber", "james.plumber@campus.edu", models.WorkerPlumber},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("worker123"), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Error hashing seed password: %v", err)
		return
	}

	for _, w := range workers {
		wt := w.wtype
		user := models.User{
			Name:       w.name,
			Email:      w.email,
			Password:   string(hashed),
			Role:       models.RoleWorker,
			WorkerType: &wt,
		}
		if err := db.Create(&user).Error; err != nil {
			utils.ErrorLogger.Printf("Error seeding worker %s: %v", w.name, err)
		}
	}
	utils.InfoLogger.Printf("Seeded %d sample workers", len(workers))
}
