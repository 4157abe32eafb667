package main

import (
	"log"
	"os"

	"github.com/briandvp/brian-blog/internal/models"
	"github.com/briandvp/brian-blog/internal/repositories"
	"github.com/briandvp/brian-blog/pkg/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seeds the admin user and a starter set of posts. Safe to run repeatedly:
// existing rows are left alone.
func main() {
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)

	adminEmail := getenv("SEED_ADMIN_EMAIL", "admin@blog.com")
	adminPassword := getenv("SEED_ADMIN_PASSWORD", "changeme")

	admin, err := userRepo.GetUserByEmail(adminEmail)
	if err == gorm.ErrRecordNotFound {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin = &models.User{
			Name:     "Brian",
			Email:    adminEmail,
			Password: string(hash),
		}
		if err := userRepo.CreateUser(admin); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Printf("Admin user created: %s", admin.Email)
	} else if err != nil {
		log.Fatalf("Failed to look up admin user: %v", err)
	} else {
		log.Printf("Admin user already exists: %s", admin.Email)
	}

	posts := []models.Post{
		{
			Title:     "The dichotomy of control in modern life",
			Content:   "A reflection on applying Stoic principles day to day. The dichotomy of control teaches us to distinguish what is up to us from what is not, and to spend our energy only on the former.",
			Category:  "Stoic principles",
			Published: true,
		},
		{
			Title:     "Interview with a contemporary Stoic philosopher",
			Content:   "A conversation about the relevance of Stoicism in the twenty-first century, and how ancient principles map onto modern challenges.",
			Category:  "Interviews",
			Published: true,
		},
		{
			Title:     "Stoic quotes for resilience",
			Content:   "A collection of passages from Marcus Aurelius, Epictetus and Seneca on building mental and emotional resilience through deliberate practice.",
			Category:  "Stoic quotes",
			Published: true,
		},
	}

	existing, _, err := postRepo.ListPosts(models.PostFilter{Status: "all", Limit: 1})
	if err != nil {
		log.Fatalf("Failed to check existing posts: %v", err)
	}
	if len(existing) > 0 {
		log.Println("Posts already present, skipping post seed.")
		return
	}

	for i := range posts {
		posts[i].AuthorID = admin.ID
		if err := postRepo.CreatePost(&posts[i]); err != nil {
			log.Fatalf("Failed to create post %q: %v", posts[i].Title, err)
		}
		log.Printf("Post created: %s", posts[i].Title)
	}

	log.Println("Seed completed successfully!")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
