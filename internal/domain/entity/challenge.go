package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// OptionsCount — количество вариантов ответа в каждом челлендже.
const OptionsCount = 4

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
// Используется GORM для записи StringArray в JSONB в базе
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Challenge представляет сгенерированный вопрос с вариантами ответа.
// Запись неизменяема после создания.
type Challenge struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	Difficulty      string      `gorm:"size:20;not null" json:"difficulty"`
	CreatedBy       string      `gorm:"size:255;not null;index" json:"created_by"`
	Title           string      `gorm:"size:1000;not null" json:"title"`
	Options         StringArray `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswerID int         `gorm:"not null" json:"correct_answer_id"`
	Explanation     string      `gorm:"type:text;not null" json:"explanation"`
	DateCreated     time.Time   `gorm:"autoCreateTime" json:"date_created"`
}

// TableName определяет имя таблицы для GORM
func (Challenge) TableName() string {
	return "challenges"
}

// IsValidAnswerID проверяет, что индекс правильного ответа
// указывает внутрь массива вариантов
func (c *Challenge) IsValidAnswerID() bool {
	return c.CorrectAnswerID >= 0 && c.CorrectAnswerID < len(c.Options)
}
