package services

import (
	"net/url"
	"strconv"

	"github.com/Hariom00027/hackathon-system/models"
)

// CertificateURLs детерминированно выводит публичные ссылки на
// сертификаты из идентичности заявки. Для командной заявки — по ссылке
// на каждого участника (ключ — его email), для индивидуальной — одна
// ссылка с ключом "default". Без состояния и случайности: безопасно
// пересчитывать сколько угодно раз.
func CertificateURLs(app *models.Application, resultBaseURL string) map[string]string {
	urls := make(map[string]string)

	if app.IsTeam && len(app.TeamMembers) > 0 {
		for _, member := range app.TeamMembers {
			if member.Email == "" {
				continue
			}
			urls[member.Email] = certificateURL(resultBaseURL, app.ID, member.Email)
		}
		return urls
	}

	urls["default"] = certificateURL(resultBaseURL, app.ID, "")
	return urls
}

func certificateURL(base string, applicationID int, email string) string {
	q := url.Values{}
	q.Set("applicationId", strconv.Itoa(applicationID))
	if email != "" {
		q.Set("email", email)
	}
	return base + "?" + q.Encode()
}
