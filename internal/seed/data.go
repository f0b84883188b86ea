package seed

import "github.com/ananses3m/shop-api/internal/core/domain"

// demoUsers lists the seeded accounts; the first admin owns the catalogue.
func demoUsers() []*domain.User {
	return []*domain.User{
		{Name: "Admin User", Email: "admin@ananses3m.shop", IsAdmin: true},
		{Name: "Kwame Mensah", Email: "kwame@example.com"},
		{Name: "Abena Owusu", Email: "abena@example.com"},
	}
}

func demoProducts() []*domain.Product {
	return []*domain.Product{
		{
			Name:         "Airpods Wireless Bluetooth Headphones",
			Image:        "/images/airpods.jpg",
			CloudinaryID: "13425344255273562",
			Description:  "Bluetooth technology lets you connect it with compatible devices wirelessly High-quality AAC audio offers immersive listening experience Built-in microphone allows you to take calls while working",
			Brand:        "Apple",
			Category:     "Electronics",
			Price:        89.99,
			CountInStock: 10,
			Rating:       4.5,
			NumReviews:   4,
		},
		{
			Name:         "iPhone 11 Pro 256GB Memory",
			Image:        "/images/phone.jpg",
			CloudinaryID: "13425344255273561",
			Description:  "Introducing the iPhone 11 Pro. A transformative triple-camera system that adds tons of capability without complexity. An unprecedented leap in battery life",
			Brand:        "Apple",
			Category:     "Electronics",
			Price:        599.99,
			CountInStock: 7,
			Rating:       4.0,
			NumReviews:   8,
		},
		{
			Name:         "Cannon EOS 80D DSLR Camera",
			Image:        "/images/camera.jpg",
			CloudinaryID: "13425344255273563",
			Description:  "Characterized by versatile imaging specs, the Canon EOS 80D further clarifies itself using a pair of robust focusing systems and an intuitive design",
			Brand:        "Cannon",
			Category:     "Electronics",
			Price:        929.99,
			CountInStock: 5,
			Rating:       3,
			NumReviews:   3,
		},
		{
			Name:         "Sony Playstation 4 Pro White Version",
			Image:        "/images/playstation.jpg",
			CloudinaryID: "13425344255273564",
			Description:  "The ultimate home entertainment center starts with PlayStation. Whether you are into gaming, HD movies, television, music",
			Brand:        "Sony",
			Category:     "Electronics",
			Price:        399.99,
			CountInStock: 11,
			Rating:       5,
			NumReviews:   3,
		},
		{
			Name:         "Logitech G-Series Gaming Mouse",
			Image:        "/images/mouse.jpg",
			CloudinaryID: "13425344255273565",
			Description:  "Get a better handle on your games with this Logitech LIGHTSYNC gaming mouse. The six programmable buttons allow customization for a smooth playing experience",
			Brand:        "Logitech",
			Category:     "Electronics",
			Price:        49.99,
			CountInStock: 7,
			Rating:       3.5,
			NumReviews:   4,
		},
		{
			Name:         "Amazon Echo Dot 3rd Generation",
			Image:        "/images/alexa.jpg",
			CloudinaryID: "13425344255273566",
			Description:  "Meet Echo Dot - Our most popular smart speaker with a fabric design. It is our most compact smart speaker that fits perfectly into small space",
			Brand:        "Amazon",
			Category:     "Electronics",
			Price:        29.99,
			CountInStock: 0,
			Rating:       4,
			NumReviews:   5,
		},
	}
}
