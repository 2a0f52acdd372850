// Package catalog holds the static event list the service is seeded with.
package catalog

import (
	"github.com/Shivanand-hulikatti/eventhub/internal/model"
	"github.com/shopspring/decimal"
)

// AllCategories is the category sentinel that matches every event.
const AllCategories = "All Categories"

// Categories returns the category choices offered by the UI, sentinel first.
func Categories() []string {
	return []string{
		AllCategories,
		"Technology",
		"Marketing",
		"Design",
		"Business",
		"Finance",
		"Health",
		"Education",
	}
}

// Events returns a fresh copy of the seed catalog in display order.
func Events() []model.Event {
	return []model.Event{
		{
			ID:          "1",
			Title:       "Tech Conference 2024",
			Description: "Join us for the biggest tech conference of the year featuring keynotes from industry leaders, workshops, and networking opportunities.",
			Date:        model.MustDate("2024-06-15"),
			Time:        "09:00 AM - 05:00 PM",
			Location:    "Convention Center, San Francisco",
			Price:       decimal.NewFromInt(299),
			Capacity:    500,
			Registered:  342,
			Category:    "Technology",
			Image:       "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b",
			Featured:    true,
		},
		{
			ID:          "2",
			Title:       "Digital Marketing Summit",
			Description: "Learn the latest digital marketing strategies from experts in SEO, content marketing, social media, and more.",
			Date:        model.MustDate("2024-07-22"),
			Time:        "10:00 AM - 04:00 PM",
			Location:    "Grand Hotel, New York",
			Price:       decimal.NewFromInt(199),
			Capacity:    300,
			Registered:  187,
			Category:    "Marketing",
			Image:       "https://images.unsplash.com/photo-1460925895917-afdab827c52f",
			Featured:    true,
		},
		{
			ID:          "3",
			Title:       "UX Design Workshop",
			Description: "A hands-on workshop focusing on user experience design principles, prototyping, and usability testing.",
			Date:        model.MustDate("2024-08-05"),
			Time:        "09:30 AM - 03:30 PM",
			Location:    "Design Studio, Austin",
			Price:       decimal.NewFromInt(149),
			Capacity:    50,
			Registered:  43,
			Category:    "Design",
			Image:       "https://images.unsplash.com/photo-1483058712412-4245e9b90334",
		},
		{
			ID:          "4",
			Title:       "AI and Machine Learning Symposium",
			Description: "Explore the cutting-edge developments in artificial intelligence and machine learning with top researchers and practitioners.",
			Date:        model.MustDate("2024-09-12"),
			Time:        "08:00 AM - 06:00 PM",
			Location:    "Innovation Center, Boston",
			Price:       decimal.NewFromInt(249),
			Capacity:    200,
			Registered:  156,
			Category:    "Technology",
			Image:       "https://images.unsplash.com/photo-1485827404703-89b55fcc595e",
			Featured:    true,
		},
		{
			ID:          "5",
			Title:       "Startup Funding Workshop",
			Description: "Learn how to secure funding for your startup from venture capitalists, angel investors, and through crowdfunding.",
			Date:        model.MustDate("2024-06-28"),
			Time:        "01:00 PM - 05:00 PM",
			Location:    "Business Hub, Seattle",
			Price:       decimal.NewFromInt(99),
			Capacity:    100,
			Registered:  67,
			Category:    "Business",
			Image:       "https://images.unsplash.com/photo-1519389950473-47ba0277781c",
		},
		{
			ID:          "6",
			Title:       "Web Development Bootcamp",
			Description: "An intensive bootcamp covering frontend and backend technologies for building modern web applications.",
			Date:        model.MustDate("2024-07-10"),
			Time:        "09:00 AM - 06:00 PM",
			Location:    "Code Campus, Chicago",
			Price:       decimal.NewFromInt(349),
			Capacity:    40,
			Registered:  38,
			Category:    "Technology",
			Image:       "https://images.unsplash.com/photo-1461749280684-dccba630e2f6",
		},
	}
}
