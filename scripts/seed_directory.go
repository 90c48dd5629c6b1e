package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/viet-college/app-dept-pages/internal/config"
	"github.com/viet-college/app-dept-pages/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedFaculty contains sample faculty directory entries. Department text is
// deliberately inconsistent, as staff enter it.
var SeedFaculty = []models.FacultyMember{
	{Name: "Dr. K. Ramesh", Designation: "Professor", Qualification: "Ph.D", Email: "ramesh@viet.edu.in", Phone: "9848012345", Experience: "18 years", Department: "Computer Science & Engineering"},
	{Name: "Mrs. P. Lakshmi", Designation: "Assistant Professor", Qualification: "M.Tech", Email: "lakshmi@viet.edu.in", Phone: "9848023456", Experience: "7 years", Department: "CSE (AI&ML)"},
	{Name: "Mr. S. Naveen", Designation: "Assistant Professor", Qualification: "M.Tech", Email: "naveen@viet.edu.in", Phone: "9848034567", Experience: "5 years", Department: "Data Science"},
	{Name: "Dr. M. Srinivas", Designation: "Associate Professor", Qualification: "Ph.D", Email: "srinivas@viet.edu.in", Phone: "9848045678", Experience: "12 years", Department: "Electronics and Communication Engineering"},
	{Name: "Mr. B. Kiran", Designation: "Assistant Professor", Qualification: "M.E", Email: "kiran@viet.edu.in", Phone: "9848056789", Experience: "6 years", Department: "Civil", DepartmentSlug: "civil"},
}

// SeedHODs contains one head per seeded department
var SeedHODs = []models.HOD{
	{Name: "Dr. A. Venkata Rao", Designation: "Professor & HOD", Qualification: "Ph.D", Email: "hod.cse@viet.edu.in", Phone: "9848067890", Experience: "22 years", Department: "CSE"},
	{Name: "Dr. G. Padma", Designation: "Professor & HOD", Qualification: "Ph.D", Email: "hod.ece@viet.edu.in", Phone: "9848078901", Experience: "19 years", Department: "ECE"},
	{Name: "Dr. R. Suresh", Designation: "Professor & HOD", Qualification: "Ph.D", Email: "hod.civil@viet.edu.in", Phone: "9848089012", Experience: "16 years", Department: "Civil Engineering", DepartmentSlug: "civil"},
}

// SeedGallery contains sample gallery images
var SeedGallery = []models.GalleryImage{
	{Src: "/v1/assets/images/cse-lab-1.jpg", Alt: "Programming lab", Department: "CSE"},
	{Src: "/v1/assets/images/cse-hackathon.jpg", Alt: "Hackathon 2024", Department: "Computer Science"},
	{Src: "/v1/assets/images/aiml-expo.jpg", Alt: "AI project expo", Department: "CSE-AIML"},
	{Src: "/v1/assets/images/ds-workshop.jpg", Alt: "Data science workshop", Department: "CSD"},
	{Src: "/v1/assets/images/ece-vlsi.jpg", Alt: "VLSI lab", Department: "ECE"},
	{Src: "/v1/assets/images/civil-survey.jpg", Alt: "Survey camp", Department: "Civil"},
}

func seed(ctx context.Context, collection *mongo.Collection, docs []interface{}) (int, error) {
	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection.Name(), err)
	}
	if count > 0 {
		fmt.Printf("⚠️  Found %d documents in %s. Replace them? (y/N): ", count, collection.Name())
		var response string
		if _, err := fmt.Scanln(&response); err != nil || (response != "y" && response != "Y") {
			fmt.Printf("⏭️  Skipping %s\n", collection.Name())
			return 0, nil
		}
		result, err := collection.DeleteMany(ctx, bson.M{})
		if err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", collection.Name(), err)
		}
		fmt.Printf("🗑️  Deleted %d documents from %s\n", result.DeletedCount, collection.Name())
	}

	result, err := collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %s: %w", collection.Name(), err)
	}
	return len(result.InsertedIDs), nil
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}

func main() {
	fmt.Println("🌱 Seeding faculty directory and gallery...")

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := config.InitMongoDB(); err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	targets := []struct {
		collection string
		docs       []interface{}
	}{
		{config.AppConfig.FacultyCollection, toDocs(SeedFaculty)},
		{config.AppConfig.HODCollection, toDocs(SeedHODs)},
		{config.AppConfig.GalleryCollection, toDocs(SeedGallery)},
	}
	for _, t := range targets {
		n, err := seed(ctx, config.MongoDB.Collection(t.collection), t.docs)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if n > 0 {
			fmt.Printf("✅ Seeded %d documents into %s\n", n, t.collection)
		}
	}

	config.DisconnectMongoDB(context.Background())
	fmt.Println("\n🎉 Seeding completed successfully!")
}
