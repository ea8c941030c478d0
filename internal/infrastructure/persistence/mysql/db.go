package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 注意：这里使用GORM的模型定义（带tag），不是domain层的实体
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&BorrowingModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"uniqueIndex;size:50;not null;comment:登录名"`
	Email     string         `gorm:"size:100;not null;comment:邮箱"`
	FullName  string         `gorm:"size:100;not null;comment:姓名"`
	Phone     string         `gorm:"size:20;comment:电话"`
	Role      string         `gorm:"size:20;not null;default:member;comment:角色(member/admin)"`
	Status    string         `gorm:"size:20;not null;default:active;comment:状态(active/inactive)"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储最小货币单位(避免浮点数精度问题)
// 2. ISBN有唯一索引,防止重复
// 3. AvailableCopies的增减只走守卫式UPDATE(见book_repo.go),
//    CHECK约束是数据库层的最后一道防线
type BookModel struct {
	ID              uint           `gorm:"primaryKey"`
	ISBN            string         `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Title           string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author          string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Publisher       string         `gorm:"size:100;comment:出版社"`
	Price           int64          `gorm:"not null;comment:价格(最小货币单位)"`
	TotalCopies     int            `gorm:"not null;comment:馆藏副本总数"`
	AvailableCopies int            `gorm:"not null;check:available_copies >= 0;comment:可借副本数"`
	Description     string         `gorm:"type:text;comment:图书描述"`
	CreatedAt       time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time      `gorm:"comment:更新时间"`
	DeletedAt       gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BorrowingModel GORM借阅记录模型
// 设计说明:
// 1. Status使用int存储(节省空间,便于索引): 1=borrowed 2=returned
// 2. (user_id, status)复合索引服务借阅上限检查的COUNT查询
// 3. ReturnDate可为NULL(未归还)
type BorrowingModel struct {
	ID         uint       `gorm:"primaryKey"`
	UserID     uint       `gorm:"index:idx_user_status;not null;comment:借阅人用户ID"`
	BookID     uint       `gorm:"index;not null;comment:图书ID"`
	BorrowDate time.Time  `gorm:"not null;comment:借出时间"`
	DueDate    time.Time  `gorm:"not null;comment:应还时间"`
	ReturnDate *time.Time `gorm:"comment:实际归还时间(未归还为NULL)"`
	Status     int        `gorm:"index:idx_user_status;type:tinyint;not null;default:1;comment:借阅状态(1已借出2已归还)"`
	CreatedAt  time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BorrowingModel) TableName() string {
	return "borrowings"
}
