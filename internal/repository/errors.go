package repository

import (
	"errors"

	"github.com/lib/pq"
)

// ErrOwnerNotFound は行の所有者となるユーザーが存在しない場合に返される。
// 退会済みユーザーのトークンで書き込んだ場合などに発生する。
var ErrOwnerNotFound = errors.New("所有者のユーザーが存在しません")

// pgForeignKeyViolation はPostgreSQLの外部キー制約違反のSQLSTATE。
const pgForeignKeyViolation = "23503"

// ownerError はusers(id)への外部キー制約違反をErrOwnerNotFoundに変換する。
// それ以外のエラーはそのまま返す。
func ownerError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return ErrOwnerNotFound
	}
	return err
}
