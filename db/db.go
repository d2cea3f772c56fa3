package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ProductCollection *mongo.Collection
	UserCollection    *mongo.Collection
	CartCollection    *mongo.Collection
	OrderCollection   *mongo.Collection
	Client            *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	ProductCollection = Client.Database("storedb").Collection("products")
	UserCollection = Client.Database("storedb").Collection("users")
	CartCollection = Client.Database("storedb").Collection("carts")
	OrderCollection = Client.Database("storedb").Collection("orders")
}

// Collection returns the handle for a named collection, or nil when the
// name is unknown.
func Collection(name string) *mongo.Collection {
	switch name {
	case "products":
		return ProductCollection
	case "users":
		return UserCollection
	case "carts":
		return CartCollection
	case "orders":
		return OrderCollection
	}
	return nil
}
