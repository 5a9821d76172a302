package extraction

import (
	"regexp"

	"ConstructionWatch/internal/domain"
)

// TypeRule maps a construction type to the terms that signal it.
type TypeRule struct {
	Type     domain.ConstructionType
	Keywords []string
}

// StatusRule maps a project status to the terms that signal it.
type StatusRule struct {
	Status   domain.ProjectStatus
	Keywords []string
}

// DatePattern recognizes one textual date shape. Expr runs against lowercased
// text; Parse receives the submatches and reports false for impossible dates.
type DatePattern struct {
	Name  string
	Expr  *regexp.Regexp
	Parse func(groups []string) (Date, bool)
}

// Lexicon is the language and region specific vocabulary of the extractor.
// Rules are evaluated in slice order, which is also the tie-break order.
type Lexicon struct {
	Keywords      []string
	RegionName    string
	RegionAliases []string
	Districts     []string

	StartCues     []string
	EndCues       []string
	AnnouncedCues []string
	// CueWindow is how many characters before a date are searched for cues.
	CueWindow int

	ConstructionTypes []TypeRule
	Statuses          []StatusRule
	DatePatterns      []DatePattern
}

// DefaultLexicon is tuned for Vietnamese reporting on Ho Chi Minh City.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Keywords: []string{
			"công trình", "dự án", "thi công", "xây dựng", "khởi công",
			"mở rộng", "nâng cấp", "cải tạo", "giải phóng mặt bằng",
			"cao tốc", "metro", "cầu vượt", "hầm chui", "vành đai",
			"chống ngập", "hoàn thành", "thông xe", "quy hoạch",
		},
		RegionName: "Hồ Chí Minh",
		RegionAliases: []string{
			"hồ chí minh", "tp.hcm", "tphcm", "tp hcm", "hcm", "sài gòn", "saigon",
		},
		Districts: []string{
			"Quận 1", "Quận 3", "Quận 4", "Quận 5", "Quận 6", "Quận 7",
			"Quận 8", "Quận 10", "Quận 11", "Quận 12",
			"Bình Thạnh", "Gò Vấp", "Phú Nhuận", "Tân Bình", "Tân Phú",
			"Bình Tân", "Thủ Đức", "Bình Chánh", "Củ Chi", "Hóc Môn",
			"Nhà Bè", "Cần Giờ",
		},
		StartCues: []string{
			"khởi công", "bắt đầu", "động thổ", "triển khai", "khởi động",
		},
		EndCues: []string{
			"hoàn thành", "hoàn tất", "kết thúc", "khánh thành",
			"thông xe", "đưa vào sử dụng", "đưa vào vận hành", "về đích",
		},
		AnnouncedCues: []string{
			"công bố", "thông báo", "phê duyệt", "ban hành", "chấp thuận",
		},
		CueWindow: 50,
		ConstructionTypes: []TypeRule{
			{domain.TypeMetro, []string{"metro", "tàu điện", "đường sắt đô thị", "ga ngầm"}},
			{domain.TypeHighway, []string{"cao tốc", "vành đai", "đường vành đai", "nút giao"}},
			{domain.TypeBridge, []string{"cầu vượt", "cây cầu", "xây cầu", "cầu bộ hành", "dầm cầu"}},
			{domain.TypeTunnel, []string{"hầm chui", "đường hầm", "hầm vượt"}},
			{domain.TypeRoad, []string{"mở rộng đường", "nâng cấp đường", "tuyến đường", "làm đường", "mặt đường"}},
			{domain.TypeDrainage, []string{"chống ngập", "thoát nước", "cống", "kênh", "rạch", "triều cường"}},
			{domain.TypePark, []string{"công viên", "cây xanh", "quảng trường"}},
			{domain.TypeBuilding, []string{"chung cư", "tòa nhà", "trường học", "bệnh viện", "nhà ở xã hội"}},
		},
		Statuses: []StatusRule{
			{domain.ProjectCompleted, []string{"hoàn thành", "khánh thành", "thông xe", "đưa vào sử dụng", "đưa vào vận hành"}},
			{domain.ProjectPaused, []string{"tạm dừng", "đình trệ", "bỏ hoang", "đắp chiếu", "chậm tiến độ"}},
			{domain.ProjectInProgress, []string{"đang thi công", "đang triển khai", "khởi công", "thi công"}},
			{domain.ProjectPlanned, []string{"quy hoạch", "dự kiến", "đề xuất", "kế hoạch", "chuẩn bị"}},
		},
		DatePatterns: VietnameseDatePatterns(),
	}
}
