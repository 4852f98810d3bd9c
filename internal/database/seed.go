package database

import (
	"context"
	"database/sql"
	"log"
)

// seedCategory groups the sample questions under one category.  Display
// orders are derived from slice position so the data stays easy to reorder.
type seedCategory struct {
	name        string
	description string
	questions   []string
}

const (
	sampleSurveyTitle        = "Khảo sát mức độ gắn bó nhân viên 2024"
	sampleSurveyDescription  = "Khảo sát đánh giá mức độ gắn bó và sự hài lòng của nhân viên với tổ chức"
	sampleSurveyInstructions = "Vui lòng trả lời tất cả các câu hỏi một cách trung thực. Thông tin của bạn sẽ được bảo mật."
)

var sampleCategories = []seedCategory{
	{
		name:        "Môi trường làm việc",
		description: "Đánh giá về môi trường và điều kiện làm việc",
		questions: []string{
			"Tôi hài lòng với môi trường làm việc tại công ty",
			"Nơi làm việc của tôi có đầy đủ trang thiết bị cần thiết",
			"Công ty tạo điều kiện cân bằng giữa công việc và cuộc sống",
			"Tôi cảm thấy an toàn khi làm việc tại công ty",
		},
	},
	{
		name:        "Lãnh đạo và quản lý",
		description: "Đánh giá về phong cách lãnh đạo và quản lý",
		questions: []string{
			"Cấp trên trực tiếp của tôi lắng nghe và tôn trọng ý kiến của nhân viên",
			"Tôi nhận được sự hỗ trợ cần thiết từ cấp trên khi gặp khó khăn",
			"Cấp trên của tôi đưa ra mục tiêu và kỳ vọng rõ ràng",
			"Tôi tin tưởng vào năng lực lãnh đạo của ban quản lý công ty",
		},
	},
	{
		name:        "Phát triển nghề nghiệp",
		description: "Đánh giá cơ hội phát triển và đào tạo",
		questions: []string{
			"Công ty tạo cơ hội để tôi phát triển kỹ năng và năng lực",
			"Tôi có cơ hội thăng tiến nghề nghiệp tại công ty",
			"Công ty hỗ trợ các chương trình đào tạo phù hợp với công việc",
			"Tôi thấy tương lai nghề nghiệp của mình gắn liền với công ty",
		},
	},
	{
		name:        "Đãi ngộ và phúc lợi",
		description: "Đánh giá về lương thưởng và phúc lợi",
		questions: []string{
			"Tôi hài lòng với mức lương hiện tại",
			"Chính sách thưởng của công ty công bằng và hợp lý",
			"Các chế độ phúc lợi của công ty đáp ứng nhu cầu của tôi",
			"Tôi nhận được sự công nhận và khen thưởng xứng đáng cho công việc",
		},
	},
	{
		name:        "Văn hóa tổ chức",
		description: "Đánh giá về văn hóa và giá trị tổ chức",
		questions: []string{
			"Tôi tự hào khi làm việc tại công ty",
			"Các giá trị văn hóa công ty phù hợp với giá trị cá nhân của tôi",
			"Đồng nghiệp của tôi làm việc hợp tác và hỗ trợ lẫn nhau",
			"Tôi sẵn sàng giới thiệu công ty như một nơi làm việc tốt",
		},
	},
}

// EnsureSampleSurvey seeds an active engagement survey with its categories
// and likert questions on a fresh install.  It does nothing once any survey
// exists, so admin-created surveys are never touched.
func EnsureSampleSurvey(ctx context.Context, db *sql.DB, createdBy uint64) error {
	var existing uint64
	err := db.QueryRowContext(ctx, "SELECT id FROM surveys LIMIT 1").Scan(&existing)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO surveys (title, description, instructions, likert_scale, is_active, created_by)
		 VALUES (?,?,?,5,1,?)`,
		sampleSurveyTitle, sampleSurveyDescription, sampleSurveyInstructions, createdBy)
	if err != nil {
		return err
	}
	surveyID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	order := 0
	for i, cat := range sampleCategories {
		catRes, err := db.ExecContext(ctx,
			`INSERT INTO question_categories (survey_id, name, description, display_order)
			 VALUES (?,?,?,?)`,
			surveyID, cat.name, cat.description, i+1)
		if err != nil {
			return err
		}
		catID, err := catRes.LastInsertId()
		if err != nil {
			return err
		}
		for _, text := range cat.questions {
			order++
			_, err := db.ExecContext(ctx,
				`INSERT INTO questions (survey_id, category_id, question_text, question_type, is_required, display_order)
				 VALUES (?,?,?,'likert',1,?)`,
				surveyID, catID, text, order)
			if err != nil {
				return err
			}
		}
	}

	log.Printf("database: seeded sample survey %q (%d questions)", sampleSurveyTitle, order)
	return nil
}
