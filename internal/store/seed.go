package store

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/emberdao/soulforge/internal/store/schema"
)

// seedCategories are the built-in contribution categories. The seed upserts
// by name, so point value changes here roll out on the next deploy without
// duplicating rows.
var seedCategories = []schema.ContributionCategory{
	{Name: "Forum Contributions", Description: "Contributions to community forums and discussions", PointValue: 15},
	{Name: "Community Events", Description: "Participation in community events", PointValue: 25},
	{Name: "Content Creation", Description: "Creating content for the community", PointValue: 30},
	{Name: "Governance Participation", Description: "Participating in governance voting", PointValue: 10},
	{Name: "Project Submission", Description: "Submitting projects built on the platform", PointValue: 50},
}

// seedBadges are the built-in badge definitions, upserted by name.
var seedBadges = []schema.Badge{
	{Name: "Early Adopter", Description: "One of the first users to join", Icon: "seedling", RequiredPoints: 50, Category: "general"},
	{Name: "Governance", Description: "Active participant in governance decisions", Icon: "vote-yea", RequiredPoints: 75, Category: "governance"},
	{Name: "Flame 100", Description: "Earned 100+ points in a single week", Icon: "fire", RequiredPoints: 100, Category: "achievement"},
	{Name: "Innovator", Description: "Created innovative solutions for the community", Icon: "lightbulb", RequiredPoints: 200, Category: "technical"},
	{Name: "Top Contributor", Description: "Consistently contributes to the community", Icon: "comments", RequiredPoints: 300, Category: "contribution"},
	{Name: "Tech Visionary", Description: "Provided technical direction for the community", Icon: "microchip", RequiredPoints: 400, Category: "technical"},
	{Name: "Community Builder", Description: "Helped grow and strengthen the community", Icon: "users", RequiredPoints: 500, Category: "contribution"},
}

// SeedReferenceData idempotently upserts the built-in contribution categories
// and badges by unique name
func (s *pgStore) SeedReferenceData(ctx context.Context) error {
	categories := make([]schema.ContributionCategory, len(seedCategories))
	copy(categories, seedCategories)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "point_value"}),
		}).
		Create(&categories).Error
	if err != nil {
		return fmt.Errorf("failed to seed contribution categories: %w", err)
	}

	badges := make([]schema.Badge, len(seedBadges))
	copy(badges, seedBadges)
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "icon", "required_points", "category"}),
		}).
		Create(&badges).Error
	if err != nil {
		return fmt.Errorf("failed to seed badges: %w", err)
	}

	return nil
}
