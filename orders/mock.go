package orders

import (
	"time"

	"freshcart/models"
)

// TrackingDemoID is the order the storefront's tracking screen opens by default.
const TrackingDemoID = "2458"

const (
	mockAddress  = "123 Main Street, Apt 4B, New York, NY 10001"
	mockMapImage = "https://storage.googleapis.com/uxpilot-auth.appspot.com/4a2932b9ab-0323888bb81dbf75a06e.png"
)

var mockDriver = models.DriverInfo{
	Name:    "Michael Chen",
	Vehicle: "Toyota Prius • ABC 123",
	Image:   "https://storage.googleapis.com/uxpilot-auth.appspot.com/avatars/avatar-3.jpg",
	Phone:   "+1234567890",
}

const mockInstructions = "Leave at the door. Please ring doorbell after delivery."

// NewProgress is the step list of a freshly placed order.
func NewProgress(placed time.Time) []models.ProgressStep {
	return []models.ProgressStep{
		{ID: 1, Status: StatusOrderPlaced.String(), Time: placed.Format(StepTimeLayout), Completed: true, Icon: "check"},
		{ID: 2, Status: StatusPreparing.String(), Icon: "check"},
		{ID: 3, Status: StatusOutForDelivery.String(), Icon: "truck"},
		{ID: 4, Status: StatusDelivered.String(), Icon: "check"},
	}
}

// Template fills the delivery fields every order shares in this demo.
func Template(id string) models.OrderDetails {
	return models.OrderDetails{
		ID:              id,
		Driver:          mockDriver,
		Instructions:    mockInstructions,
		Contactless:     true,
		MapImage:        mockMapImage,
		DeliveryAddress: mockAddress,
	}
}

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func image(photo string) string {
	return "https://images.unsplash.com/" + photo + "?q=80&w=2940&auto=format&fit=crop"
}

func delivered(times ...string) []models.ProgressStep {
	steps := NewProgress(time.Time{})
	for i := range steps {
		steps[i].Completed = true
		steps[i].Time = times[i]
	}
	return steps
}

// MockOrders is the seed data: the live tracking order and the order history.
func MockOrders() []models.OrderDetails {
	tracking := Template(TrackingDemoID)
	tracking.Status = StatusOutForDelivery.Slug()
	tracking.ETA = "12:45 PM"
	tracking.Distance = "2.3 km"
	tracking.Progress = []models.ProgressStep{
		{ID: 1, Status: "Order Placed", Time: "11:30 AM", Completed: true, Icon: "check"},
		{ID: 2, Status: "Preparing", Time: "11:45 AM", Completed: true, Icon: "check"},
		{ID: 3, Status: "Out for Delivery", Time: "12:15 PM", Completed: true, Icon: "truck"},
		{ID: 4, Status: "Delivered", Time: "12:45 PM", Completed: false, Icon: "check"},
	}
	tracking.Items = []models.OrderLine{
		{ProductID: "p1", Name: "Organic Avocado", Quantity: 3, Price: 1.99, Image: image("photo-1601039641847-7857b994d704")},
		{ProductID: "p7", Name: "Atlantic Salmon Fillet", Quantity: 2, Price: 11.69, Image: image("photo-1599084993091-1cb5c9b3b9f8")},
		{ProductID: "p5", Name: "Artisan Sourdough", Quantity: 1, Price: 5.49, Image: image("photo-1585478259715-32fa5ea6108f")},
	}
	tracking.Subtotal = 34.84
	tracking.DeliveryFee = 20
	tracking.Total = 54.84
	tracking.DeliveryOption = "standard"
	tracking.PaymentMethod = "cash"
	tracking.TrackingNumber = "TRK-2458000000"
	tracking.PlacedAt = day("2023-11-12").Add(11*time.Hour + 30*time.Minute)

	o1 := Template("ORD-1234")
	o1.Status = StatusDelivered.Slug()
	o1.Progress = delivered("9:10 AM", "9:25 AM", "9:50 AM", "10:05 AM")
	o1.Items = []models.OrderLine{
		{ProductID: "p1", Name: "Organic Avocado", Quantity: 2, Price: 1.99, Image: image("photo-1601039641847-7857b994d704")},
		{ProductID: "p4", Name: "Free-Range Eggs", Quantity: 1, Price: 4.99, Image: image("photo-1506976785307-8732e854ad03")},
		{ProductID: "p8", Name: "Cold Brew Coffee", Quantity: 2, Price: 4.29, Image: image("photo-1592663527359-cf6642f54e65")},
	}
	o1.Subtotal, o1.Total = 17.55, 17.55
	o1.TrackingNumber = "TRK-9876543210"
	o1.PlacedAt = day("2023-10-15")

	o2 := Template("ORD-5678")
	o2.Status = StatusDelivered.Slug()
	o2.Progress = delivered("6:00 PM", "6:15 PM", "6:40 PM", "7:00 PM")
	o2.Items = []models.OrderLine{
		{ProductID: "p2", Name: "Fresh Strawberries", Quantity: 1, Price: 3.49, Image: image("photo-1464965911861-746a04b4bca6")},
		{ProductID: "p5", Name: "Artisan Sourdough", Quantity: 1, Price: 5.49, Image: image("photo-1585478259715-32fa5ea6108f")},
		{ProductID: "p7", Name: "Atlantic Salmon Fillet", Quantity: 1, Price: 12.99, Image: image("photo-1599084993091-1cb5c9b3b9f8")},
	}
	o2.Subtotal, o2.Total = 21.97, 21.97
	o2.TrackingNumber = "TRK-1234567890"
	o2.PlacedAt = day("2023-09-28")

	o3 := Template("ORD-9012")
	o3.Status = StatusOutForDelivery.Slug()
	o3.Progress = NewProgress(time.Time{})
	o3.Progress[0].Time = "2:00 PM"
	o3.Progress[1] = models.ProgressStep{ID: 2, Status: "Preparing", Time: "2:20 PM", Completed: true, Icon: "check"}
	o3.Progress[2] = models.ProgressStep{ID: 3, Status: "Out for Delivery", Time: "2:45 PM", Completed: true, Icon: "truck"}
	o3.Items = []models.OrderLine{
		{ProductID: "p3", Name: "Organic Spinach", Quantity: 1, Price: 2.29, Image: image("photo-1576045057995-568f588f82fb")},
		{ProductID: "p6", Name: "Organic Whole Milk", Quantity: 2, Price: 3.99, Image: image("photo-1563636619-e9143da7973b")},
		{ProductID: "p10", Name: "Blueberry Smoothie", Quantity: 1, Price: 5.99, Image: image("photo-1553530666-ba11a7da3888")},
	}
	o3.Subtotal, o3.Total = 16.26, 16.26
	o3.TrackingNumber = "TRK-5678901234"
	o3.PlacedAt = day("2023-11-05")

	return []models.OrderDetails{tracking, o1, o2, o3}
}
