package validator

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
	// UsernamePrefixLength — сколько первых символов имени нельзя повторять в начале пароля
	UsernamePrefixLength = 3
)

var (
	ErrUsernameTooShort      = fmt.Errorf("username must be at least %d characters", MinUsernameLength)
	ErrPasswordTooShort      = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordLikeUsername  = errors.New("password must not start with the username characters")
	ErrInvalidEmail          = errors.New("invalid email format")
	ErrEmptyComment          = errors.New("comment must not be empty")
	ErrMissingImageExtension = errors.New("image name has no file extension")
	ErrUnsupportedImage      = errors.New("image format not supported")
)

// AllowedImageExtensions — допустимые расширения загружаемых и относительных изображений
var AllowedImageExtensions = []string{"jpg", "png", "jpeg", "webm", "gif"}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateUsername проверяет длину имени пользователя в символах
func ValidateUsername(username string) error {
	if utf8.RuneCountInString(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	return nil
}

// ValidatePassword проверяет требования к паролю.
// Сравнение с именем регистрозависимое, как ввёл пользователь.
func ValidatePassword(password, username string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	prefix := []rune(username)
	if len(prefix) > UsernamePrefixLength {
		prefix = prefix[:UsernamePrefixLength]
	}
	if strings.HasPrefix(password, string(prefix)) {
		return ErrPasswordLikeUsername
	}
	return nil
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	if email == "" || !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateComment проверяет, что текст комментария не пустой
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyComment
	}
	return nil
}

// ImageExtension возвращает расширение после последней точки (в нижнем регистре)
// и проверяет его по списку допустимых.
func ImageExtension(name string) (string, error) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "", ErrMissingImageExtension
	}
	ext := strings.ToLower(name[i+1:])
	for _, allowed := range AllowedImageExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q, supported formats are %s",
		ErrUnsupportedImage, name[i+1:], strings.Join(AllowedImageExtensions, ", "))
}

// BaseName отрезает директории из имени файла клиента
func BaseName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	return path.Base(name)
}
