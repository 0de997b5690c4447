package models

// BlockMappingRecord 块映射目录表，用于持久化维护代码到块的对应关系。
// Codes为逗号分隔的代码列表，ScaleJSON为序列化后的ScaleResolver
type BlockMappingRecord struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"index;not null" json:"name"`
	BlockName string `gorm:"not null" json:"block_name"`
	Codes     string `gorm:"not null" json:"codes"`
	ScaleJSON string `json:"scale_json"`
	Sort      int    `gorm:"index" json:"sort"` // 匹配优先级，小者优先

	CreatedAt int64 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BlockMappingRecord) TableName() string {
	return "block_mappings"
}
