package auth

import (
	"crypto/sha512"
	"encoding/hex"
	"time"

	"github.com/PIRSON21/scoring/internal/lib/api/request"
)

// adminTokenLayout - час, на который выписан админский токен: YYYYMMDDHH.
const adminTokenLayout = "2006010215"

// Authenticator проверяет токен конверта запроса. Соли приходят из
// конфигурации при старте процесса, в коде они не зашиты.
type Authenticator struct {
	salt      string
	adminSalt string
	now       func() time.Time
}

func New(salt, adminSalt string) *Authenticator {
	return &Authenticator{
		salt:      salt,
		adminSalt: adminSalt,
		now:       time.Now,
	}
}

// Check сравнивает токен конверта с ожидаемым дайджестом.
//
// Админский дайджест считается от текущего часа локального времени и
// admin-соли, то есть действует один час и не требует серверного состояния.
// Обычный дайджест - детерминированная функция account+login+соль.
func (a *Authenticator) Check(req *request.MethodRequest) bool {
	var expected string
	if req.IsAdmin() {
		expected = digest(a.now().Format(adminTokenLayout) + a.adminSalt)
	} else {
		expected = digest(req.Account + req.Login + a.salt)
	}

	return expected == req.Token
}

// digest - hex от SHA-512 строки.
func digest(s string) string {
	sum := sha512.Sum512([]byte(s))
	return hex.EncodeToString(sum[:])
}
