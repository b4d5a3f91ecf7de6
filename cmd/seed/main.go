package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aireadiness/internal/model"
	"aireadiness/internal/repository"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("aireadiness")
	catalogRepo := repository.NewCatalogRepo(db)
	orgRepo := repository.NewOrgRepo(db)

	if existing, err := catalogRepo.Latest(ctx, "ai-readiness"); err != nil {
		log.Fatalf("Failed to check existing catalog: %v", err)
	} else if existing != nil {
		log.Printf("Catalog already seeded (version %d), skipping", existing.Version)
	} else {
		catalog := &model.Catalog{
			SurveyID: "ai-readiness",
			Version:  1,
			Title:    "AI Readiness Assessment",
			Questions: []model.Question{
				{ID: 1, Category: "Strategy & Vision", Text: "Our leadership has a clear vision for how AI supports business goals.", Details: "Consider whether AI appears in strategy documents and budget planning."},
				{ID: 2, Category: "Strategy & Vision", Text: "AI initiatives are prioritized against measurable business outcomes.", Details: "Think of concrete KPIs tied to AI projects."},
				{ID: 3, Category: "Strategy & Vision", Text: "We have an executive sponsor accountable for AI adoption.", Details: ""},
				{ID: 4, Category: "Data & Infrastructure", Text: "Our core business data is accessible through well-defined interfaces.", Details: "APIs, warehouses, or curated exports rather than ad hoc spreadsheets."},
				{ID: 5, Category: "Data & Infrastructure", Text: "Data quality is monitored and issues are fixed at the source.", Details: ""},
				{ID: 6, Category: "Data & Infrastructure", Text: "We can provision compute for experimentation without long lead times.", Details: "Cloud or on-prem capacity available in days, not quarters."},
				{ID: 7, Category: "Talent & Skills", Text: "Teams outside IT understand what current AI tools can and cannot do.", Details: ""},
				{ID: 8, Category: "Talent & Skills", Text: "We employ or contract people who can build and evaluate AI solutions.", Details: ""},
				{ID: 9, Category: "Talent & Skills", Text: "Training on AI tools is available to every employee who wants it.", Details: ""},
				{ID: 10, Category: "Governance & Risk", Text: "We have guidelines covering acceptable AI use and data handling.", Details: "Including what data may be sent to external model providers."},
				{ID: 11, Category: "Governance & Risk", Text: "AI-assisted decisions that affect customers are reviewed by humans.", Details: ""},
				{ID: 12, Category: "Governance & Risk", Text: "We assess AI systems for bias and regulatory exposure before launch.", Details: ""},
				{ID: 13, Category: "Process & Operations", Text: "We have identified the processes where AI could remove manual effort.", Details: ""},
				{ID: 14, Category: "Process & Operations", Text: "Pilots move to production with defined ownership and support.", Details: "A pilot that works has a path beyond the innovation team."},
				{ID: 15, Category: "Process & Operations", Text: "We measure the impact of deployed AI solutions after rollout.", Details: ""},
				{ID: 16, Category: "Culture & Adoption", Text: "Employees are encouraged to experiment with AI tools in their work.", Details: ""},
				{ID: 17, Category: "Culture & Adoption", Text: "Failed AI experiments are treated as learning, not as career risk.", Details: ""},
				{ID: 18, Category: "Culture & Adoption", Text: "Successes with AI are shared across teams and departments.", Details: ""},
			},
			CreatedAt: time.Now(),
		}

		if _, err := catalogRepo.Create(ctx, catalog); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		log.Printf("Seeded catalog %q version %d with %d questions", catalog.SurveyID, catalog.Version, len(catalog.Questions))
	}

	orgs := []*model.Organization{
		{ID: "org_demo", Name: "Demo Organization", Industry: "technology", CreatedAt: time.Now()},
		{ID: "org_northwind", Name: "Northwind Logistics", Industry: "logistics", CreatedAt: time.Now()},
		{ID: "org_contoso", Name: "Contoso Health", Industry: "healthcare", CreatedAt: time.Now()},
	}
	for _, org := range orgs {
		if err := orgRepo.Upsert(ctx, org); err != nil {
			log.Fatalf("Failed to seed organization %s: %v", org.ID, err)
		}
	}
	log.Printf("Seeded %d organizations", len(orgs))
}
