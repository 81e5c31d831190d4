package round

import "errors"

// Motor hataları. Aşırı dağıtım (over-allocation) burada yok: o bir hata
// değil, AllocationResult içinde veri olarak döner ve kullanıcı onayıyla
// kaydedilebilir.
var (
	ErrNotFound           = errors.New("kayıt bulunamadı")
	ErrInvalidInput       = errors.New("geçersiz girdi")
	ErrIntegrityViolation = errors.New("türetilmiş stok toplamı kaynak toplamdan sapmış")
	ErrRoundClosed        = errors.New("tur kapalı, yazma reddedildi")
)
