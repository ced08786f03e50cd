package store

import (
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// Seed returns the bundled starter dataset. Task due dates are relative to now.
func Seed(now time.Time) Snapshot {
	day := func(offset int) string { return utils.FormatDate(now.AddDate(0, 0, offset)) }

	snap := Snapshot{
		Users: []models.User{
			seedUser("admin", "Admin User", models.RoleAdmin, "admin_password"),
			seedUser("hassan.o", "Hassan Omar", models.RoleManager, "manager_password"),
			seedUser("ali.h", "Ali Hassan", models.RoleStaff, "staff_password"),
			seedUser("mona.s", "Mona Said", models.RoleStaff, "staff_password"),
		},
		Customers: []models.Customer{
			{ID: "C001", Name: "Ahmed Mohamed", Phone: "+201012345678", Email: "ahmed@email.com", PassportNumber: "A12345678", PassportExpiry: "2028-05-10", Documents: []models.DocumentFile{}, DateAdded: "2023-10-15", Age: 35, Gender: models.GenderMale},
			{ID: "C002", Name: "Fatima Ali", Phone: "+201187654321", Email: "fatima@email.com", PassportNumber: "B87654321", PassportExpiry: "2029-11-20", Documents: []models.DocumentFile{}, DateAdded: "2023-10-18", Age: 28, Gender: models.GenderFemale},
			{ID: "C003", Name: "Youssef Ibrahim", Phone: "+201298765432", Email: "youssef@email.com", PassportNumber: "C54321678", PassportExpiry: "2027-01-30", Documents: []models.DocumentFile{}, DateAdded: "2023-11-01", Age: 42, Gender: models.GenderMale},
			{ID: "C004", Name: "Omar Ahmed", Phone: "+201012345678", Email: "ahmed@email.com", PassportNumber: "D11122233", PassportExpiry: "2030-01-01", Documents: []models.DocumentFile{}, DateAdded: "2024-03-01", Age: 5, Gender: models.GenderMale},
			{ID: "C005", Name: "Sara Ali (Infant)", Phone: "+201187654321", Email: "fatima@email.com", PassportNumber: "E44455566", PassportExpiry: "2031-01-01", Documents: []models.DocumentFile{}, DateAdded: "2024-03-01", Age: 1, Gender: models.GenderFemale},
		},
		Packages: []models.Package{
			{ID: "P01", PackageCode: "UMR-ECO-15", Name: "15-Day Umrah Economy", Type: models.PackageUmrah, Duration: 15, Price: 35000, Description: "Economy package for a 15-day Umrah trip.", HotelMakkah: "Al Kiswah Towers", HotelMadinah: "Dar Al Eiman Al Manar", Includes: []string{"Visa", "Accommodation"}},
			{ID: "P02", PackageCode: "UMR-LUX-10", Name: "10-Day Umrah 5-Star", Type: models.PackageUmrah, Duration: 10, Price: 60000, Description: "Luxury 5-star package for Umrah.", HotelMakkah: "Fairmont Makkah Clock Royal Tower", HotelMadinah: "Anwar Al Madinah Mövenpick", Includes: []string{"Flights", "Visa", "5-Star Hotels", "Breakfast", "Private Transport"}, IsFeatured: true},
			{ID: "P03", PackageCode: "HAJ-PREM-25", Name: "Hajj 2024 Premium", Type: models.PackageHajj, Duration: 25, Price: 250000, Description: "Premium Hajj package with all services.", HotelMakkah: "Raffles Makkah Palace", HotelMadinah: "The Oberoi Madina", Includes: []string{"All Inclusive", "Flights"}, IsFeatured: true},
		},
		Bookings: []models.Booking{
			{ID: "B001", CustomerID: "C001", PackageID: "P01", BookingDate: "2023-11-05", Status: models.StatusCompleted, RoomType: models.RoomTriple, Meals: models.MealFullBoard},
			{ID: "B002", CustomerID: "C002", PackageID: "P02", BookingDate: "2023-11-10", Status: models.StatusTicketed, RoomType: models.RoomDouble, Meals: models.MealBreakfast, FlightDetails: &models.FlightDetails{Airline: "EgyptAir", FlightNumber: "MS644", DepartureDate: "2023-12-10", ReturnDate: "2023-12-20"}},
			{ID: "B003", CustomerID: "C003", PackageID: "P01", BookingDate: "2023-11-12", Status: models.StatusVisaProcessed, RoomType: models.RoomQuad, Meals: models.MealHalfBoard},
			{ID: "B004", CustomerID: "C001", PackageID: "P03", BookingDate: "2024-01-20", Status: models.StatusDeposited, RoomType: models.RoomDouble, Meals: models.MealOnlyBed, FlightDetails: &models.FlightDetails{Airline: "Saudia", FlightNumber: "SV302", DepartureDate: "2024-06-10", ReturnDate: "2024-07-05"}},
			{ID: "B005", CustomerID: "C002", PackageID: "P01", BookingDate: "2024-02-01", Status: models.StatusPending, RoomType: models.RoomQuintuple, Meals: models.MealBreakfast},
			{ID: "B006", CustomerID: "C004", PackageID: "P02", BookingDate: "2024-03-05", Status: models.StatusConfirmed, WithoutBed: true},
			{ID: "B007", CustomerID: "C003", BookingDate: "2024-04-10", Status: models.StatusTicketed, IsTicketOnly: true, TicketCostPrice: 7500, TicketTotalPaid: 8200, FlightDetails: &models.FlightDetails{Airline: "Flynas", FlightNumber: "XY264", DepartureDate: "2024-05-20", ReturnDate: "2024-05-30"}},
		},
		Payments: []models.Payment{
			{ID: "PAY001", BookingID: "B001", Amount: 35000, PaymentDate: "2023-11-05", Method: models.PaymentBankTransfer},
			{ID: "PAY002", BookingID: "B002", Amount: 60000, PaymentDate: "2023-11-10", Method: models.PaymentCash},
			{ID: "PAY003", BookingID: "B003", Amount: 35000, PaymentDate: "2023-11-12", Method: models.PaymentCreditCard},
			{ID: "PAY004", BookingID: "B004", Amount: 100000, PaymentDate: "2024-01-20", Method: models.PaymentBankTransfer},
			{ID: "PAY005", BookingID: "B005", Amount: 5000, PaymentDate: "2024-02-01", Method: models.PaymentCash},
			{ID: "PAY006", BookingID: "B006", Amount: 15000, PaymentDate: "2024-03-05", Method: models.PaymentCash},
		},
		ExpenseCategories: []models.ExpenseCategory{
			{ID: "cat-1", Name: "Rent"},
			{ID: "cat-2", Name: "Bills"},
			{ID: "cat-3", Name: "Salaries"},
			{ID: "cat-4", Name: "Marketing"},
			{ID: "cat-5", Name: "Visa Fees"},
			{ID: "cat-6", Name: "Transportation"},
			{ID: "cat-7", Name: "Other"},
		},
		Expenses: []models.Expense{
			{ID: "E001", Category: "Rent", Description: "Office Rent - Nov 2023", Amount: 15000, ExpenseDate: "2023-11-01", PaidTo: "Building Management"},
			{ID: "E002", Category: "Bills", Description: "Electricity and Internet", Amount: 2500, ExpenseDate: "2023-11-25", PaidTo: "Utility Company", VATAmount: 350},
			{ID: "E003", Category: "Salaries", Description: "Staff Salaries - Nov 2023", Amount: 50000, ExpenseDate: "2023-11-30", PaidTo: "Employees"},
			{ID: "E004", Category: "Marketing", Description: "Social Media Campaign", Amount: 5000, ExpenseDate: "2023-11-15", PaidTo: "Facebook Ads"},
		},
		Tasks: []models.Task{
			{ID: "T001", Title: "Confirm flight tickets for Fatima Ali", BookingID: "B002", DueDate: day(0), Priority: models.PriorityHigh},
			{ID: "T002", Title: "Follow up on visa status for Youssef Ibrahim", BookingID: "B003", DueDate: day(2), Priority: models.PriorityMedium},
			{ID: "T003", Title: "Collect final payment from Ahmed Mohamed", BookingID: "B004", DueDate: day(7), Priority: models.PriorityMedium},
			{ID: "T004", Title: "Prepare welcome kits for Hajj packages", DueDate: day(14), Priority: models.PriorityLow},
			{ID: "T005", Title: "Arrange hotel transport for B001", BookingID: "B001", DueDate: "2023-11-01", Priority: models.PriorityHigh, IsCompleted: true},
		},
		ActivityLog: []models.ActivityLogEntry{},
	}
	return snap
}

func seedUser(id, name string, role models.UserRole, password string) models.User {
	u := models.User{ID: id, Name: name, Role: role}
	if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
		u.PasswordHash = string(hash)
	}
	return u
}
