// Command seed wipes the cars table and inserts a handful of sample
// listings, useful for local development and manual testing.
package main

import (
	"context"
	"log"

	"github.com/iliyamo/car-listing-api/internal/config"
	"github.com/iliyamo/car-listing-api/internal/database"
	"github.com/iliyamo/car-listing-api/internal/model"
	"github.com/iliyamo/car-listing-api/internal/repository"
)

func strPtr(s string) *string { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64 { return &i }
func boolPtr(b bool) *bool { return &b }

var sampleCars = []model.CarInput{
	{
		Brand: "Ferrari", Model: "250 GTO", Year: 1962,
		Color: strPtr("Red"), Price: f64Ptr(45000000), Mileage: i64Ptr(12000),
		Description: strPtr("Exceptional collector's car"), Category: strPtr("Sports"),
	},
	{
		Brand: "Porsche", Model: "911 Carrera RS", Year: 1973,
		Color: strPtr("White"), Price: f64Ptr(850000), Mileage: i64Ptr(45000),
		Description: strPtr("Legendary RS model"), Category: strPtr("Sports"),
	},
	{
		Brand: "Jaguar", Model: "E-Type", Year: 1961,
		Color: strPtr("Blue"), Price: f64Ptr(320000), Mileage: i64Ptr(78000),
		Description: strPtr("An icon of automotive design"), Category: strPtr("Convertible"),
	},
	{
		Brand: "Mercedes-Benz", Model: "300 SL", Year: 1955,
		Color: strPtr("Silver"), Price: f64Ptr(1200000), Mileage: i64Ptr(34000),
		Description: strPtr("Iconic gullwing doors"), Category: strPtr("Sports"),
	},
	{
		Brand: "Aston Martin", Model: "DB5", Year: 1964,
		Color: strPtr("Grey"), Price: f64Ptr(750000), Mileage: i64Ptr(56000),
		Description: strPtr("The James Bond car"), Favorite: boolPtr(true), Category: strPtr("Coupe"),
	},
}

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("DELETE FROM cars"); err != nil {
		log.Fatalf("clear cars table: %v", err)
	}
	log.Println("cars table cleared")

	cars := repository.NewCarRepo(db)
	ctx := context.Background()
	for _, in := range sampleCars {
		car, err := cars.Create(ctx, in)
		if err != nil {
			log.Fatalf("insert %s %s: %v", in.Brand, in.Model, err)
		}
		log.Printf("inserted #%d %s %s (%d)", car.ID, car.Brand, car.Model, car.Year)
	}
	log.Printf("seeded %d cars into %s", len(sampleCars), cfg.DBPath)
}
