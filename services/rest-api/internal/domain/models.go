package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Role — роль пользователя. Допустимы только admin и user.
type Role uint8

const (
	RoleUser Role = iota + 1
	RoleAdmin
)

// ParseRole разбирает роль без учёта регистра
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(s) {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

func (r Role) MarshalText() ([]byte, error) {
	if r != RoleUser && r != RoleAdmin {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value хранит роль в БД как текст
func (r Role) Value() (driver.Value, error) {
	b, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into Role", src)
}

// ImageURLType — вид ссылки на изображение поста
type ImageURLType uint8

const (
	ImageAbsolute ImageURLType = iota + 1
	ImageRelative
)

// AbsoluteURLPrefix — всё, что начинается с него, считается внешней ссылкой
const AbsoluteURLPrefix = "https://"

// ImageURLTypeOf определяет вид ссылки по её форме
func ImageURLTypeOf(url string) ImageURLType {
	if strings.HasPrefix(url, AbsoluteURLPrefix) {
		return ImageAbsolute
	}
	return ImageRelative
}

func ParseImageURLType(s string) (ImageURLType, error) {
	switch s {
	case "absolute":
		return ImageAbsolute, nil
	case "relative":
		return ImageRelative, nil
	}
	return 0, fmt.Errorf("unknown image url type %q", s)
}

func (t ImageURLType) String() string {
	switch t {
	case ImageAbsolute:
		return "absolute"
	case ImageRelative:
		return "relative"
	}
	return fmt.Sprintf("ImageURLType(%d)", uint8(t))
}

func (t ImageURLType) MarshalText() ([]byte, error) {
	if t != ImageAbsolute && t != ImageRelative {
		return nil, fmt.Errorf("invalid image url type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *ImageURLType) UnmarshalText(b []byte) error {
	parsed, err := ParseImageURLType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ImageURLType) Value() (driver.Value, error) {
	b, err := t.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (t *ImageURLType) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	}
	return fmt.Errorf("cannot scan %T into ImageURLType", src)
}

// User — доменная модель пользователя
type User struct {
	ID        int64
	Username  string
	Email     string
	PassHash  string
	Role      Role
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Post — пост с изображением. Owner и Comments заполняются только при выдаче списка.
type Post struct {
	ID           int64
	ImageURL     string
	ImageURLType ImageURLType
	Caption      string
	CreatedAt    time.Time
	UserID       int64
	Owner        string
	Comments     []Comment
}

// Comment хранит имя автора на момент создания, а не ссылку на пользователя
type Comment struct {
	ID        int64
	Text      string
	Username  string
	CreatedAt time.Time
	PostID    int64
}

// Caller — пользователь текущего запроса, восстановленный по токену
type Caller struct {
	ID       int64
	Username string
	Email    string
}
