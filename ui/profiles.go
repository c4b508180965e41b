package ui

import (
	"fmt"
	"math"
	"strings"
)

// profile is a card on the explore page. Bio is markdown.
type profile struct {
	Name      string
	Age       int
	Bio       string
	Interests []string
	Rating    float64
}

var sampleProfiles = []profile{
	{
		Name:      "Emma",
		Age:       24,
		Bio:       "Adventure seeker who loves **painting sunsets**, hiking mountain trails, and having deep conversations over coffee. Always up for trying new cuisines! ✨",
		Interests: []string{"🎨 Art", "🏔️ Hiking", "☕ Coffee", "📸 Photography", "🌅 Travel"},
		Rating:    4.2,
	},
	{
		Name:      "Alex",
		Age:       27,
		Bio:       "Tech enthusiast and weekend warrior. Love *coding by day* and rock climbing by night. Always down for a good movie marathon! 🚀",
		Interests: []string{"💻 Tech", "🧗 Climbing", "🎬 Movies", "🎮 Gaming", "🍕 Food"},
		Rating:    3.8,
	},
	{
		Name:      "Maya",
		Age:       25,
		Bio:       "Yoga instructor and mindfulness advocate. Passionate about **sustainable living** and exploring hidden gems around the city. 🧘‍♀️",
		Interests: []string{"🧘 Yoga", "🌱 Sustainability", "🏙️ Exploring", "📚 Reading", "🥗 Health"},
		Rating:    4.6,
	},
}

var ratingDescriptions = map[int]string{
	1: "Getting Started",
	2: "Building Connections",
	3: "Well Liked",
	4: "Highly Rated",
	5: "Community Favorite",
}

// ratingText renders a community rating as "4.2 - Highly Rated".
func ratingText(rating float64) string {
	rounded := int(math.Round(rating))
	rounded = max(1, min(5, rounded))
	return fmt.Sprintf("%.1f - %s", rating, ratingDescriptions[rounded])
}

// markdown returns the card body rendered on the explore page.
func (p profile) markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s, %d\n\n", p.Name, p.Age)
	fmt.Fprintf(&b, "%s\n\n", p.Bio)
	for _, interest := range p.Interests {
		fmt.Fprintf(&b, "- %s\n", interest)
	}
	fmt.Fprintf(&b, "\n_Community rating: %s_\n", ratingText(p.Rating))
	return b.String()
}
