package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db                *gorm.DB
	userRepo          *UserRepo
	blogRepo          *BlogRepo
	blogCategoryRepo  *BlogCategoryRepo
	blogTagRepo       *BlogTagRepo
	projectRepo       *ProjectRepo
	projectTagRepo    *ProjectTagRepo
	skillRepo         *SkillRepo
	skillCategoryRepo *SkillCategoryRepo
	experienceRepo    *ExperienceRepo
	footerContentRepo *FooterContentRepo
	resumeRepo        *ResumeRepo
	subscriberRepo    *SubscriberRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	blogTags := NewBlogTagRepo(db)
	projectTags := NewProjectTagRepo(db)
	skills := NewSkillRepo(db)
	return Database{
		db:                db,
		userRepo:          NewUserRepo(db),
		blogRepo:          NewBlogRepo(db, blogTags),
		blogCategoryRepo:  NewBlogCategoryRepo(db),
		blogTagRepo:       blogTags,
		projectRepo:       NewProjectRepo(db, projectTags),
		projectTagRepo:    projectTags,
		skillRepo:         skills,
		skillCategoryRepo: NewSkillCategoryRepo(db, skills),
		experienceRepo:    NewExperienceRepo(db),
		footerContentRepo: NewFooterContentRepo(db),
		resumeRepo:        NewResumeRepo(db),
		subscriberRepo:    NewSubscriberRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) BlogCategoryRepo() *BlogCategoryRepo {
	return d.blogCategoryRepo
}

func (d Database) BlogTagRepo() *BlogTagRepo {
	return d.blogTagRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProjectTagRepo() *ProjectTagRepo {
	return d.projectTagRepo
}

func (d Database) SkillRepo() *SkillRepo {
	return d.skillRepo
}

func (d Database) SkillCategoryRepo() *SkillCategoryRepo {
	return d.skillCategoryRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) FooterContentRepo() *FooterContentRepo {
	return d.footerContentRepo
}

func (d Database) ResumeRepo() *ResumeRepo {
	return d.resumeRepo
}

func (d Database) SubscriberRepo() *SubscriberRepo {
	return d.subscriberRepo
}

// Ping checks that the store answers a trivial query
func (d Database) Ping(ctx context.Context) error {
	var one int
	return d.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}
